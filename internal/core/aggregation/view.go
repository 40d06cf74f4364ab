package aggregation

import (
	"fmt"
	"sort"
	"strings"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	"github.com/shopspring/decimal"
)

// maxSheetNameLen is the longest sheet name a workbook accepts.
const maxSheetNameLen = 31

// Sheet names of the built-in views.
const (
	ViewTotalSales        = "Total_Sales"
	ViewTopProducts       = "Top_Products"
	ViewRevenueByCategory = "Revenue_by_Category"
	ViewOrdersByCustomer  = "Orders_by_Customer"
)

// ViewDefinition describes how one aggregate view is derived from enriched orders.
// Name doubles as the sheet name in the exported workbook.
type ViewDefinition struct {
	Name        string
	GroupBy     string // dimension field; empty reduces all records into one row
	Operator    string // count, sum, min, max
	Field       string // measure field; ignored by count
	KeyColumn   string // header of the group key column
	ValueColumn string // header of the aggregate column
	Order       string // desc, asc, none
}

// DefaultViews returns the four standard order reports in sheet order.
func DefaultViews() []ViewDefinition {
	return []ViewDefinition{
		{
			Name:        ViewTotalSales,
			Operator:    OpSum,
			Field:       FieldTotalPrice,
			ValueColumn: "TotalSalesRevenue",
			Order:       OrderNone,
		},
		{
			Name:        ViewTopProducts,
			GroupBy:     FieldProduct,
			Operator:    OpSum,
			Field:       FieldQuantity,
			KeyColumn:   "Product",
			ValueColumn: "TotalQuantitySold",
			Order:       OrderDesc,
		},
		{
			Name:        ViewRevenueByCategory,
			GroupBy:     FieldCategory,
			Operator:    OpSum,
			Field:       FieldTotalPrice,
			KeyColumn:   "Category",
			ValueColumn: "CategoryRevenue",
			Order:       OrderDesc,
		},
		{
			Name:        ViewOrdersByCustomer,
			GroupBy:     FieldCustomerID,
			Operator:    OpCount,
			Field:       FieldOrderID,
			KeyColumn:   "CustomerID",
			ValueColumn: "TotalOrders",
			Order:       OrderDesc,
		},
	}
}

// Validate checks the definition against the operator registry and the order fields.
func (d ViewDefinition) Validate() error {
	if err := validateSheetName(d.Name); err != nil {
		return err
	}
	agg, ok := Operators[d.Operator]
	if !ok {
		return fmt.Errorf("view %q: unsupported operator %q", d.Name, d.Operator)
	}
	if agg.ReadsMeasure() && !IsMeasure(d.Field) {
		return fmt.Errorf("view %q: operator %s needs a numeric field, got %q", d.Name, d.Operator, d.Field)
	}
	if !agg.ReadsMeasure() && d.Field != "" && !IsDimension(d.Field) && !IsMeasure(d.Field) {
		return fmt.Errorf("view %q: unknown field %q", d.Name, d.Field)
	}
	if d.GroupBy != "" && !IsDimension(d.GroupBy) {
		return fmt.Errorf("view %q: cannot group by %q", d.Name, d.GroupBy)
	}
	if d.GroupBy != "" && strings.TrimSpace(d.KeyColumn) == "" {
		return fmt.Errorf("view %q: key_column is required when grouping", d.Name)
	}
	if strings.TrimSpace(d.ValueColumn) == "" {
		return fmt.Errorf("view %q: value_column is required", d.Name)
	}
	switch d.Order {
	case OrderNone, OrderDesc, OrderAsc:
	default:
		return fmt.Errorf("view %q: unsupported order %q", d.Name, d.Order)
	}
	return nil
}

func validateSheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("view name must not be empty")
	}
	if len([]rune(name)) > maxSheetNameLen {
		return fmt.Errorf("view %q: name longer than %d characters", name, maxSheetNameLen)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return fmt.Errorf("view %q: name contains a character not allowed in sheet names", name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("view %q: name must not start or end with an apostrophe", name)
	}
	return nil
}

// Columns returns the header row of the view.
func (d ViewDefinition) Columns() []string {
	if d.GroupBy == "" {
		return []string{d.ValueColumn}
	}
	return []string{d.KeyColumn, d.ValueColumn}
}

type group struct {
	key    string
	values []decimal.Decimal
}

// Compute partitions records by the group-by field and reduces each partition.
// Groups are kept in first-encountered order; sorting is stable, so rows with
// equal values keep that order. An ungrouped view always yields exactly one row.
func (d ViewDefinition) Compute(records []v1.EnrichedOrderRecord) (AggregateView, error) {
	agg, ok := Operators[d.Operator]
	if !ok {
		return AggregateView{}, fmt.Errorf("view %q: unsupported operator %q", d.Name, d.Operator)
	}

	index := make(map[string]int)
	var groups []group
	if d.GroupBy == "" {
		groups = append(groups, group{})
		index[""] = 0
	}

	for _, rec := range records {
		key := ""
		if d.GroupBy != "" {
			k, err := Dimension(rec, d.GroupBy)
			if err != nil {
				return AggregateView{}, fmt.Errorf("view %q: %w", d.Name, err)
			}
			key = k
		}

		incoming := decimal.Zero
		if agg.ReadsMeasure() {
			v, err := Measure(rec, d.Field)
			if err != nil {
				return AggregateView{}, fmt.Errorf("view %q: %w", d.Name, err)
			}
			incoming = v
		}

		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].values = append(groups[i].values, incoming)
	}

	rows := make([]AggregateRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, AggregateRow{
			Key:         g.key,
			Value:       Reduce(agg, g.values),
			RecordCount: int64(len(g.values)),
		})
	}
	sortRows(rows, d.Order)

	return AggregateView{
		Name:    d.Name,
		Columns: d.Columns(),
		Rows:    rows,
	}, nil
}

func sortRows(rows []AggregateRow, order string) {
	switch order {
	case OrderDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value.GreaterThan(rows[j].Value) })
	case OrderAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value.LessThan(rows[j].Value) })
	default:
		// keep first-encountered order
	}
}
