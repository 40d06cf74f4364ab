package projection

import (
	"time"

	"github.com/aevon-lab/order-insights/internal/core/aggregation"
)

// ViewsResponse is the body of GET /v1/reports.
type ViewsResponse struct {
	Views []aggregation.AggregateView `json:"views"`
}

// ExportResponse is the body of POST /v1/reports/export.
type ExportResponse struct {
	RunID      string    `json:"run_id"`
	OutputPath string    `json:"output_path"`
	Records    int       `json:"records"`
	Sheets     []string  `json:"sheets"`
	ExportedAt time.Time `json:"exported_at"`
}
