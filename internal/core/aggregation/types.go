package aggregation

import (
	"github.com/shopspring/decimal"
)

// Supported aggregation operators.
// avg is deferred; it needs composite state (sum+count).
const (
	OpCount = "count"
	OpSum   = "sum"
	OpMin   = "min"
	OpMax   = "max"
)

// Sort orders applied to grouped view rows.
const (
	OrderNone = "none"
	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// AggregateRow is one reduced group of a view.
type AggregateRow struct {
	// Key is the group-by value. Empty for ungrouped views.
	Key string `json:"key,omitempty"`

	Value decimal.Decimal `json:"value"`

	// RecordCount is the number of records folded into this row.
	RecordCount int64 `json:"record_count"`
}

// AggregateView is a derived, read-only table: one header row and one row per group.
type AggregateView struct {
	Name    string         `json:"name"`
	Columns []string       `json:"columns"`
	Rows    []AggregateRow `json:"rows"`
}

// Grouped reports whether rows carry a group key column.
func (v AggregateView) Grouped() bool {
	return len(v.Columns) == 2
}

// Row returns the row whose key equals key.
func (v AggregateView) Row(key string) (AggregateRow, bool) {
	for _, r := range v.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return AggregateRow{}, false
}
