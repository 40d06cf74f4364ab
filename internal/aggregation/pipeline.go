package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	"github.com/aevon-lab/order-insights/internal/core/aggregation"
	"github.com/aevon-lab/order-insights/internal/core/storage"
	"github.com/aevon-lab/order-insights/internal/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultWorkerCount = 4

// ErrPipelineClosed is returned by any stage called after Close.
var ErrPipelineClosed = errors.New("pipeline closed")

// Exporter persists computed views to destination.
type Exporter interface {
	Write(ctx context.Context, views []aggregation.AggregateView, destination, runID string) error
}

// Options controls how a pipeline computes its views.
type Options struct {
	// WorkerCount bounds how many views are computed in parallel.
	WorkerCount int
}

func (o Options) normalized() Options {
	n := o
	if n.WorkerCount <= 0 {
		n.WorkerCount = defaultWorkerCount
	}
	return n
}

// Result summarizes one completed run.
type Result struct {
	RunID      string                      `json:"run_id"`
	OutputPath string                      `json:"output_path"`
	Records    int                         `json:"records"`
	Views      []aggregation.AggregateView `json:"views"`
	Duration   time.Duration               `json:"duration"`
}

// Pipeline is one caller-owned aggregation run: load → enrich → aggregate → export.
// Create it with NewPipeline and release it with Close. It is not safe for
// concurrent use; views inside Aggregate are computed in parallel.
type Pipeline struct {
	runID    string
	source   storage.OrderSource
	views    []aggregation.ViewDefinition
	exporter Exporter
	metrics  *metrics.Registry
	opts     Options
	closed   bool
}

// NewPipeline creates a pipeline with a fresh run id. metrics may be nil.
// The pipeline does not own source; the caller closes it.
func NewPipeline(
	source storage.OrderSource,
	views []aggregation.ViewDefinition,
	exporter Exporter,
	reg *metrics.Registry,
	opts Options,
) *Pipeline {
	p := &Pipeline{
		runID:    uuid.NewString(),
		source:   source,
		views:    views,
		exporter: exporter,
		metrics:  reg,
		opts:     opts.normalized(),
	}
	slog.Debug("[Pipeline] Created", "run_id", p.runID, "views", len(views))
	return p
}

// RunID identifies this pipeline in logs and in the exported workbook.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Load fetches order records from the source.
func (p *Pipeline) Load(ctx context.Context) ([]v1.OrderRecord, error) {
	if p.closed {
		return nil, ErrPipelineClosed
	}
	records, err := p.source.LoadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordsLoaded.Add(float64(len(records)))
	}
	slog.Info("[Pipeline] Loaded orders", "run_id", p.runID, "count", len(records))
	return records, nil
}

// Enrich validates records and derives TotalPrice.
func (p *Pipeline) Enrich(records []v1.OrderRecord) ([]v1.EnrichedOrderRecord, error) {
	if p.closed {
		return nil, ErrPipelineClosed
	}
	enriched, err := v1.Enrich(records)
	if err != nil {
		return nil, fmt.Errorf("enrich orders: %w", err)
	}
	return enriched, nil
}

// Aggregate computes every view from the same enriched records.
// Views share no mutable state, so they run in parallel; results keep
// definition order regardless of completion order.
func (p *Pipeline) Aggregate(ctx context.Context, records []v1.EnrichedOrderRecord) ([]aggregation.AggregateView, error) {
	if p.closed {
		return nil, ErrPipelineClosed
	}

	results := make([]aggregation.AggregateView, len(p.views))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.WorkerCount)

	for i, def := range p.views {
		i, def := i, def
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			view, err := def.Compute(records)
			if err != nil {
				return err
			}
			results[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	if p.metrics != nil {
		for _, v := range results {
			p.metrics.ViewRows.WithLabelValues(v.Name).Set(float64(len(v.Rows)))
		}
	}
	slog.Info("[Pipeline] Computed views", "run_id", p.runID, "views", len(results))
	return results, nil
}

// Export writes views to destination through the configured exporter.
func (p *Pipeline) Export(ctx context.Context, views []aggregation.AggregateView, destination string) error {
	if p.closed {
		return ErrPipelineClosed
	}
	if err := p.exporter.Write(ctx, views, destination, p.runID); err != nil {
		return fmt.Errorf("export %s: %w", destination, err)
	}
	return nil
}

// Compute runs load, enrich and aggregate without exporting.
func (p *Pipeline) Compute(ctx context.Context) ([]aggregation.AggregateView, int, error) {
	records, err := p.Load(ctx)
	if err != nil {
		return nil, 0, err
	}
	enriched, err := p.Enrich(records)
	if err != nil {
		return nil, 0, err
	}
	views, err := p.Aggregate(ctx, enriched)
	if err != nil {
		return nil, 0, err
	}
	return views, len(enriched), nil
}

// Run executes the full pipeline and writes the workbook to destination.
func (p *Pipeline) Run(ctx context.Context, destination string) (res *Result, err error) {
	start := time.Now()
	defer func() {
		p.observe(start, err)
	}()

	views, n, err := p.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Export(ctx, views, destination); err != nil {
		return nil, err
	}

	res = &Result{
		RunID:      p.runID,
		OutputPath: destination,
		Records:    n,
		Views:      views,
		Duration:   time.Since(start),
	}
	slog.Info("[Pipeline] Run complete",
		"run_id", p.runID,
		"records", n,
		"views", len(views),
		"output", destination,
		"duration", res.Duration,
	)
	return res, nil
}

func (p *Pipeline) observe(start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.Runs.WithLabelValues(metrics.StatusFailure).Inc()
		return
	}
	p.metrics.Runs.WithLabelValues(metrics.StatusSuccess).Inc()
	p.metrics.LastSuccess.SetToCurrentTime()
}

// Close ends the pipeline's scope. Further calls fail with ErrPipelineClosed.
// Close is idempotent.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	slog.Debug("[Pipeline] Closed", "run_id", p.runID)
	return nil
}
