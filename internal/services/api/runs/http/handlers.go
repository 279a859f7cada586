// Package http provides http transport for pipeline runs
package http

import (
	stdhttp "net/http"

	"leadscout/internal/modkit/httpkit"
	"leadscout/internal/services/api/runs/domain"
	svc "leadscout/internal/services/api/runs/service"
)

// Register mounts the router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RunInput](r, "/run", h.run)
	httpkit.Get(r, "/runs/last", h.last)
}

type handlers struct{ svc *svc.Service }

// swagger:route POST /pipeline/run Pipeline run
// @Summary Trigger one pipeline run
// @Tags pipeline
// @Accept json
// @Produce json
// @Param payload body domain.RunInput true "Run"
// @Success 200 {object} pipedom.Result "run report"
// @Router /pipeline/run [post]
func (h *handlers) run(r *stdhttp.Request, in domain.RunInput) (any, error) {
	return h.svc.Run(r.Context(), in)
}

// swagger:route GET /pipeline/runs/last Pipeline runsLast
// @Summary Most recent run report
// @Tags pipeline
// @Produce json
// @Success 200 {object} pipedom.Result "run report"
// @Failure 404 {object} httpkit.Envelope "no run yet"
// @Router /pipeline/runs/last [get]
func (h *handlers) last(r *stdhttp.Request) (any, error) {
	return h.svc.Last(r.Context())
}
