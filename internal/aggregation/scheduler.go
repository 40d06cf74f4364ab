package aggregation

import (
	"context"
	"log/slog"
	"time"
)

// ReportExporter runs one full export.
type ReportExporter interface {
	Export(ctx context.Context) (*Result, error)
}

// Scheduler re-exports the workbook on a fixed interval.
// Each tick is an independent run; a failed run is logged and retried on the next tick.
type Scheduler struct {
	interval time.Duration
	exporter ReportExporter
}

func NewScheduler(interval time.Duration, exporter ReportExporter) *Scheduler {
	return &Scheduler{
		interval: interval,
		exporter: exporter,
	}
}

// Start exports once immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting periodic export", "interval", s.interval)

	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	res, err := s.exporter.Export(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("[Scheduler] Export failed", "error", err)
		return
	}
	slog.Info("[Scheduler] Export complete",
		"run_id", res.RunID,
		"output", res.OutputPath,
		"records", res.Records,
	)
}
