// Package domain holds DTOs for the pipeline run endpoints
package domain

// RunInput triggers one pipeline run over a date window
type RunInput struct {
	ServiceID string `json:"service_id" validate:"required,min=1,max=100" example:"svc-bousai-cloud"`
	Since     string `json:"since,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2026-06-01"`
	Until     string `json:"until,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2026-07-01"`

	ZeroLimit       int  `json:"zero_limit,omitempty" validate:"omitempty,min=1,max=10000" example:"200"`
	FirstOrderLimit int  `json:"first_order_limit,omitempty" validate:"omitempty,min=1,max=1000" example:"100"`
	DryRun          bool `json:"dry_run,omitempty" example:"true"`
}
