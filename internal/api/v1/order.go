package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderDateLayout is the ISO 8601 calendar date layout used for OrderDate.
const OrderDateLayout = "2006-01-02"

// ErrInvalidOrder is wrapped by every OrderRecord validation failure.
var ErrInvalidOrder = errors.New("invalid order")

// OrderRecord is a single sales order as delivered by an order source.
// Records are treated as immutable once loaded.
type OrderRecord struct {
	// OrderID uniquely identifies the order.
	OrderID string `json:"order_id"`

	Product  string `json:"product"`
	Category string `json:"category"`

	// Quantity is the number of units sold. Must be >= 0.
	Quantity int64 `json:"quantity"`

	// Price is the unit price. Must be >= 0.
	Price decimal.Decimal `json:"price"`

	// OrderDate is a calendar date encoded as "YYYY-MM-DD".
	OrderDate string `json:"order_date"`

	CustomerID string `json:"customer_id"`
}

// Validate ensures the record satisfies the order model.
func (o *OrderRecord) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("%w: order_id is required", ErrInvalidOrder)
	}
	if o.Quantity < 0 {
		return fmt.Errorf("%w: order %s: quantity must be >= 0, got %d", ErrInvalidOrder, o.OrderID, o.Quantity)
	}
	if o.Price.IsNegative() {
		return fmt.Errorf("%w: order %s: price must be >= 0, got %s", ErrInvalidOrder, o.OrderID, o.Price)
	}
	if _, err := time.Parse(OrderDateLayout, o.OrderDate); err != nil {
		return fmt.Errorf("%w: order %s: order_date %q is not YYYY-MM-DD", ErrInvalidOrder, o.OrderID, o.OrderDate)
	}
	return nil
}

// EnrichedOrderRecord is an OrderRecord plus the derived TotalPrice.
type EnrichedOrderRecord struct {
	OrderRecord
}

// TotalPrice returns Quantity × Price. It is recomputed on every call so it
// can never drift from its inputs.
func (e EnrichedOrderRecord) TotalPrice() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(e.Quantity))
}

// Enrich validates every record and derives the TotalPrice column.
// The first invalid record aborts enrichment.
func Enrich(records []OrderRecord) ([]EnrichedOrderRecord, error) {
	out := make([]EnrichedOrderRecord, 0, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, EnrichedOrderRecord{OrderRecord: records[i]})
	}
	return out, nil
}
