// Package service adapts pipeline runs for the ops API and remembers the
// most recent report
package service

import (
	"context"
	"sync"
	"time"

	perr "leadscout/internal/platform/errors"
	"leadscout/internal/services/api/runs/domain"
	pipedom "leadscout/internal/services/pipeline/domain"
)

// defaultLookback is the run window when the request names no since date
const defaultLookback = 7 * 24 * time.Hour

// Service triggers pipeline runs and serves the last report
type Service struct {
	runner pipedom.RunnerPort

	mu   sync.RWMutex
	last *pipedom.Result
}

// New constructs the run service over the pipeline runner port
func New(runner pipedom.RunnerPort) *Service {
	if runner == nil {
		panic("runs service requires the pipeline Runner port")
	}
	return &Service{runner: runner}
}

// Run executes one pipeline run synchronously and returns its report
func (s *Service) Run(ctx context.Context, in domain.RunInput) (pipedom.Result, error) {
	since, until, err := window(in.Since, in.Until)
	if err != nil {
		return pipedom.Result{}, err
	}

	res, err := s.runner.Run(ctx, pipedom.Input{
		ServiceID:       in.ServiceID,
		Since:           since,
		Until:           until,
		ZeroLimit:       in.ZeroLimit,
		FirstOrderLimit: in.FirstOrderLimit,
		DryRun:          in.DryRun,
	})
	if err != nil {
		return pipedom.Result{}, err
	}

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()
	return res, nil
}

// Last returns the most recent run report held in memory
func (s *Service) Last(context.Context) (pipedom.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return pipedom.Result{}, perr.NotFoundf("no pipeline run recorded yet")
	}
	return *s.last, nil
}

// window resolves the date pair; empty until means now, empty since means
// one lookback period before until
func window(since, until string) (time.Time, time.Time, error) {
	u := time.Now().UTC()
	if until != "" {
		t, err := time.Parse("2006-01-02", until)
		if err != nil {
			return time.Time{}, time.Time{}, perr.InvalidArgf("until: %v", err)
		}
		u = t
	}

	f := u.Add(-defaultLookback)
	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return time.Time{}, time.Time{}, perr.InvalidArgf("since: %v", err)
		}
		f = t
	}

	if !f.Before(u) {
		return time.Time{}, time.Time{}, perr.InvalidArgf("since %s must precede until %s",
			f.Format("2006-01-02"), u.Format("2006-01-02"))
	}
	return f, u, nil
}
