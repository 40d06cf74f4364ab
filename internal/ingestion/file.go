package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrMissingOrders is returned when an order file has no "orders" list.
var ErrMissingOrders = errors.New(`missing "orders" list`)

// rawOrder is the on-disk shape of one order. JSON documents parse too,
// since JSON is a subset of YAML.
type rawOrder struct {
	OrderID    string     `yaml:"order_id"`
	Product    string     `yaml:"product"`
	Category   string     `yaml:"category"`
	Quantity   int64      `yaml:"quantity"`
	Price      orderPrice `yaml:"price"`
	OrderDate  string     `yaml:"order_date"`
	CustomerID string     `yaml:"customer_id"`
}

type orderDocument struct {
	Orders []rawOrder `yaml:"orders"`
}

// orderPrice accepts decimal text ("9.99", 1500, 2.5e3) and any YAML
// integer form (0x10, 0o20). Floats are never routed through float64.
type orderPrice struct {
	decimal.Decimal
}

func (p *orderPrice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a scalar", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err == nil {
		p.Decimal = d
		return nil
	}
	if node.ShortTag() == "!!int" {
		var n int64
		if intErr := node.Decode(&n); intErr == nil {
			p.Decimal = decimal.NewFromInt(n)
			return nil
		}
	}
	return fmt.Errorf("line %d: invalid price %q: %w", node.Line, node.Value, err)
}

// FileSource reads orders from a YAML or JSON file of the form
//
//	orders:
//	  - order_id: ORD1
//	    product: Laptop
//	    ...
//
// Unknown keys are rejected and the orders list is required, so a
// misspelled key fails the load instead of yielding an empty report.
// The file is re-read on every LoadOrders call.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// LoadOrders parses the file. Records are returned in file order.
func (s *FileSource) LoadOrders(ctx context.Context) ([]v1.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading order file: %w", err)
	}

	var doc orderDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing order file %s: %w", s.path, err)
	}
	if doc.Orders == nil {
		return nil, fmt.Errorf("parsing order file %s: %w", s.path, ErrMissingOrders)
	}

	orders := make([]v1.OrderRecord, 0, len(doc.Orders))
	for _, raw := range doc.Orders {
		orders = append(orders, v1.OrderRecord{
			OrderID:    raw.OrderID,
			Product:    raw.Product,
			Category:   raw.Category,
			Quantity:   raw.Quantity,
			Price:      raw.Price.Decimal,
			OrderDate:  raw.OrderDate,
			CustomerID: raw.CustomerID,
		})
	}

	slog.Debug("[FileSource] Loaded orders", "path", s.path, "count", len(orders))
	return orders, nil
}

func (s *FileSource) Close() error { return nil }
