// Package module provides the keyword builder module
package module

import (
	"net/http"
	"time"

	"leadscout/internal/adapters/llm"
	"leadscout/internal/modkit"
	"leadscout/internal/modkit/httpkit"
	"leadscout/internal/services/keywords/domain"
	"leadscout/internal/services/keywords/service"
)

// Ports exposed by the keywords module
type Ports struct {
	Builder domain.BuilderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new keywords module. The judgment client comes from the
// shared SERVICE_LLM_* config; an unconfigured client pins the builder to
// its static defaults
func New(deps modkit.Deps) *Module {
	lf := deps.Cfg.Prefix("SERVICE_LLM_")
	var temp *float64
	if t := lf.MayFloat64("TEMPERATURE", -1); t >= 0 {
		temp = &t
	}
	judge := llm.NewClient(llm.Options{
		BaseURL:     lf.MayString("BASE_URL", ""),
		APIKey:      lf.MayString("API_KEY", ""),
		Model:       lf.MayString("MODEL", ""),
		Temperature: temp,
		MaxRetries:  lf.MayInt("MAX_RETRIES", 0),
	})

	ttl := deps.Cfg.Prefix("CORE_PIPELINE_").MayDuration("KEYWORD_TTL", 15*time.Minute)
	svc := service.New(judge, service.Config{TTL: ttl})

	m := &Module{deps: deps}
	m.ports = Ports{Builder: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "keywords" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
