// Package diagnostics periodically snapshots the Coral Server's resources and
// logs a per-item summary, giving operators a pulse on what the server exposes.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/coral-agents/coral-interface-agent/internal/coral"
)

// ResourceLister is the slice of the server client the snapshot needs.
type ResourceLister interface {
	Resources(ctx context.Context) ([]coral.ResourceItem, error)
}

// Service runs the resource snapshot on a cron schedule.
type Service struct {
	lister   ResourceLister
	schedule string
	cron     *robfigcron.Cron
}

// NewService builds the snapshot service. An empty schedule disables it;
// Run then just blocks until ctx is cancelled.
func NewService(lister ResourceLister, schedule string) *Service {
	return &Service{
		lister:   lister,
		schedule: schedule,
		cron:     robfigcron.New(),
	}
}

// Run arms the schedule and blocks until ctx is cancelled.
// A snapshot failure is logged, never fatal.
func (s *Service) Run(ctx context.Context) error {
	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, func() {
			snapCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			s.Snapshot(snapCtx)
		}); err != nil {
			return fmt.Errorf("diagnostics: bad schedule %q: %w", s.schedule, err)
		}
		s.cron.Start()
		defer func() { <-s.cron.Stop().Done() }()
	}

	<-ctx.Done()
	return ctx.Err()
}

// Snapshot fetches the current resource list and logs one line per item.
// Individual resource failures are reported inline and never abort the batch.
func (s *Service) Snapshot(ctx context.Context) {
	items, err := s.lister.Resources(ctx)
	if err != nil {
		slog.Warn("resource snapshot failed", "err", err)
		return
	}

	summaries := coral.SummarizeResources(items)
	failed := 0
	for _, sum := range summaries {
		if sum.Status == coral.StatusFailed {
			failed++
			slog.Warn("resource unreadable", "index", sum.Index, "err", sum.Error)
			continue
		}
		slog.Info("resource", "index", sum.Index, "details", sum.Details)
	}
	slog.Info("resource snapshot complete", "total", len(summaries), "failed", failed)
}
