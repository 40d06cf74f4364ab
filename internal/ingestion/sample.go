package ingestion

import (
	"context"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	"github.com/shopspring/decimal"
)

// SampleSource serves the fixed five-order dataset.
type SampleSource struct{}

// NewSampleSource returns the built-in sample source.
func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

// SampleOrders returns a fresh copy of the sample dataset.
func SampleOrders() []v1.OrderRecord {
	return []v1.OrderRecord{
		{OrderID: "ORD1", Product: "Laptop", Category: "Electronics", Quantity: 2, Price: decimal.NewFromInt(1500), OrderDate: "2024-01-05", CustomerID: "CUST101"},
		{OrderID: "ORD2", Product: "Phone", Category: "Electronics", Quantity: 1, Price: decimal.NewFromInt(1000), OrderDate: "2024-01-06", CustomerID: "CUST102"},
		{OrderID: "ORD3", Product: "Tablet", Category: "Electronics", Quantity: 3, Price: decimal.NewFromInt(1200), OrderDate: "2024-01-07", CustomerID: "CUST103"},
		{OrderID: "ORD4", Product: "Headphones", Category: "Accessories", Quantity: 5, Price: decimal.NewFromInt(200), OrderDate: "2024-01-08", CustomerID: "CUST104"},
		{OrderID: "ORD5", Product: "Charger", Category: "Accessories", Quantity: 4, Price: decimal.NewFromInt(50), OrderDate: "2024-01-09", CustomerID: "CUST105"},
	}
}

// LoadOrders never fails; the data is compiled in.
func (s *SampleSource) LoadOrders(_ context.Context) ([]v1.OrderRecord, error) {
	return SampleOrders(), nil
}

func (s *SampleSource) Close() error { return nil }
