package aggregation

import (
	"context"
	"sync"

	"github.com/aevon-lab/order-insights/internal/core/aggregation"
	"github.com/aevon-lab/order-insights/internal/core/storage"
	"github.com/aevon-lab/order-insights/internal/metrics"
)

// Runner builds a new Pipeline per request so long-running processes
// (the HTTP server and the scheduler) never share pipeline state.
type Runner struct {
	source      storage.OrderSource
	views       aggregation.ViewRepository
	exporter    Exporter
	metrics     *metrics.Registry
	opts        Options
	destination string

	// exportMu serializes writers of the same destination.
	exportMu sync.Mutex
}

func NewRunner(
	source storage.OrderSource,
	views aggregation.ViewRepository,
	exporter Exporter,
	reg *metrics.Registry,
	opts Options,
	destination string,
) *Runner {
	return &Runner{
		source:      source,
		views:       views,
		exporter:    exporter,
		metrics:     reg,
		opts:        opts,
		destination: destination,
	}
}

func (r *Runner) newPipeline() *Pipeline {
	return NewPipeline(r.source, r.views.Views(), r.exporter, r.metrics, r.opts)
}

// Views computes every view without writing a workbook.
func (r *Runner) Views(ctx context.Context) ([]aggregation.AggregateView, error) {
	p := r.newPipeline()
	defer p.Close()

	views, _, err := p.Compute(ctx)
	return views, err
}

// View computes a single view by name.
func (r *Runner) View(ctx context.Context, name string) (*aggregation.AggregateView, error) {
	def, err := r.views.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	p := NewPipeline(r.source, []aggregation.ViewDefinition{*def}, r.exporter, r.metrics, r.opts)
	defer p.Close()

	views, _, err := p.Compute(ctx)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Export runs the full pipeline against the configured destination.
func (r *Runner) Export(ctx context.Context) (*Result, error) {
	r.exportMu.Lock()
	defer r.exportMu.Unlock()

	p := r.newPipeline()
	defer p.Close()

	return p.Run(ctx, r.destination)
}
