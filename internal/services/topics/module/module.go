// Package module provides the lead topics module
package module

import (
	"net/http"

	"leadscout/internal/modkit"
	"leadscout/internal/modkit/httpkit"
	"leadscout/internal/modkit/repokit"
	"leadscout/internal/services/topics/domain"
	"leadscout/internal/services/topics/repo"
	"leadscout/internal/services/topics/service"
)

// Ports exposed by the topics module
type Ports struct {
	Writer domain.WriterPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new topics module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), service.Config{
		ChunkSize: opts.ChunkSize,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "topics" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
