// Package module provides the service catalog module
package module

import (
	"net/http"

	"leadscout/internal/modkit"
	"leadscout/internal/modkit/httpkit"
	"leadscout/internal/modkit/repokit"
	"leadscout/internal/services/catalog/domain"
	"leadscout/internal/services/catalog/repo"
	"leadscout/internal/services/catalog/service"
)

// Ports exposed by the catalog module
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new catalog module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Reader: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "catalog" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
