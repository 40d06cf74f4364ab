package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/aevon-lab/order-insights/internal/aggregation"
	coreagg "github.com/aevon-lab/order-insights/internal/core/aggregation"
)

// Reports computes and exports views on demand. *aggregation.Runner implements it.
type Reports interface {
	Views(ctx context.Context) ([]coreagg.AggregateView, error)
	View(ctx context.Context, name string) (*coreagg.AggregateView, error)
	Export(ctx context.Context) (*aggregation.Result, error)
}

// Service implements the report query layer.
type Service struct {
	reports Reports
	nowFn   func() time.Time
}

func NewService(reports Reports) *Service {
	return &Service{
		reports: reports,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ListViews returns every configured view computed from the current orders.
func (s *Service) ListViews(ctx context.Context) (*ViewsResponse, error) {
	views, err := s.reports.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute views: %w", err)
	}
	return &ViewsResponse{Views: views}, nil
}

// GetView returns one view by sheet name. Lookup is case-insensitive.
func (s *Service) GetView(ctx context.Context, name string) (*coreagg.AggregateView, error) {
	view, err := s.reports.View(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("compute view %q: %w", name, err)
	}
	return view, nil
}

// ExportWorkbook runs the full pipeline to the configured output path.
func (s *Service) ExportWorkbook(ctx context.Context) (*ExportResponse, error) {
	res, err := s.reports.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export workbook: %w", err)
	}

	sheets := make([]string, 0, len(res.Views))
	for _, v := range res.Views {
		sheets = append(sheets, v.Name)
	}
	return &ExportResponse{
		RunID:      res.RunID,
		OutputPath: res.OutputPath,
		Records:    res.Records,
		Sheets:     sheets,
		ExportedAt: s.nowFn(),
	}, nil
}
