package aggregation

import (
	"fmt"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Record fields addressable from view definitions.
const (
	FieldOrderID    = "order_id"
	FieldProduct    = "product"
	FieldCategory   = "category"
	FieldCustomerID = "customer_id"
	FieldOrderDate  = "order_date"
	FieldQuantity   = "quantity"
	FieldPrice      = "price"
	FieldTotalPrice = "total_price"
)

// dimensionHeaders maps group-by fields to their default column header.
var dimensionHeaders = map[string]string{
	FieldOrderID:    "OrderID",
	FieldProduct:    "Product",
	FieldCategory:   "Category",
	FieldCustomerID: "CustomerID",
	FieldOrderDate:  "OrderDate",
}

var measureFields = map[string]bool{
	FieldQuantity:   true,
	FieldPrice:      true,
	FieldTotalPrice: true,
}

// IsDimension reports whether field can be used as a group-by key.
func IsDimension(field string) bool {
	_, ok := dimensionHeaders[field]
	return ok
}

// IsMeasure reports whether field is numeric.
func IsMeasure(field string) bool {
	return measureFields[field]
}

// Dimension returns the string value of a group-by field.
func Dimension(rec v1.EnrichedOrderRecord, field string) (string, error) {
	switch field {
	case FieldOrderID:
		return rec.OrderID, nil
	case FieldProduct:
		return rec.Product, nil
	case FieldCategory:
		return rec.Category, nil
	case FieldCustomerID:
		return rec.CustomerID, nil
	case FieldOrderDate:
		return rec.OrderDate, nil
	}
	return "", fmt.Errorf("unknown dimension field %q", field)
}

// Measure returns the numeric value of a measure field.
// TotalPrice is derived from the record on every call.
func Measure(rec v1.EnrichedOrderRecord, field string) (decimal.Decimal, error) {
	switch field {
	case FieldQuantity:
		return decimal.NewFromInt(rec.Quantity), nil
	case FieldPrice:
		return rec.Price, nil
	case FieldTotalPrice:
		return rec.TotalPrice(), nil
	}
	return decimal.Zero, fmt.Errorf("unknown measure field %q", field)
}
