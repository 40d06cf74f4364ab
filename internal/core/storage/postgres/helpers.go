package postgres

import (
	"fmt"
	"time"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	"github.com/shopspring/decimal"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanOrderRow scans a database row into an OrderRecord.
// NUMERIC prices are read as text so no precision is lost on the way to decimal.
func scanOrderRow(row scanner) (v1.OrderRecord, error) {
	var (
		ord       v1.OrderRecord
		price     string
		orderDate time.Time
	)

	err := row.Scan(
		&ord.OrderID,
		&ord.Product,
		&ord.Category,
		&ord.Quantity,
		&price,
		&orderDate,
		&ord.CustomerID,
	)
	if err != nil {
		return v1.OrderRecord{}, fmt.Errorf("failed to scan order row: %w", err)
	}

	ord.Price, err = decimal.NewFromString(price)
	if err != nil {
		return v1.OrderRecord{}, fmt.Errorf("order %s: invalid price %q: %w", ord.OrderID, price, err)
	}
	ord.OrderDate = orderDate.Format(v1.OrderDateLayout)

	return ord, nil
}
