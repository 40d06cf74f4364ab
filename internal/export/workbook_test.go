package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aevon-lab/order-insights/internal/core/aggregation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testViews() []aggregation.AggregateView {
	return []aggregation.AggregateView{
		{
			Name:    "Total_Sales",
			Columns: []string{"TotalSalesRevenue"},
			Rows:    []aggregation.AggregateRow{{Value: decimal.NewFromInt(8800), RecordCount: 5}},
		},
		{
			Name:    "Revenue_by_Category",
			Columns: []string{"Category", "CategoryRevenue"},
			Rows: []aggregation.AggregateRow{
				{Key: "Electronics", Value: decimal.NewFromInt(7600), RecordCount: 3},
				{Key: "Accessories", Value: decimal.RequireFromString("1200.5"), RecordCount: 2},
			},
		},
	}
}

func TestWorkbookWriter_WriteAndReadBack(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.xlsx")
	w := NewWorkbookWriter("order-insights")

	require.NoError(t, w.Write(context.Background(), testViews(), dest, "run-1"))

	sheets, err := ReadWorkbook(dest)
	require.NoError(t, err)
	require.Equal(t, []Sheet{
		{Name: "Total_Sales", Rows: [][]string{{"TotalSalesRevenue"}, {"8800"}}},
		{Name: "Revenue_by_Category", Rows: [][]string{
			{"Category", "CategoryRevenue"},
			{"Electronics", "7600"},
			{"Accessories", "1200.5"},
		}},
	}, sheets)

	id, err := Identifier(dest)
	require.NoError(t, err)
	require.Equal(t, "run-1", id)
}

func TestWorkbookWriter_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	w := NewWorkbookWriter("order-insights")
	require.NoError(t, w.Write(context.Background(), testViews(), dest, "run-2"))

	sheets, err := ReadWorkbook(dest)
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "report.xlsx", entries[0].Name())
}

func TestWorkbookWriter_UnwritableDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing-dir", "report.xlsx")

	err := NewWorkbookWriter("order-insights").Write(context.Background(), testViews(), dest, "run-3")
	require.ErrorContains(t, err, "create temp workbook")
	_, statErr := os.Stat(dest)
	require.True(t, os.IsNotExist(statErr))
}

func TestWorkbookWriter_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	w := NewWorkbookWriter("order-insights")

	err := w.Write(context.Background(), nil, filepath.Join(dir, "a.xlsx"), "run")
	require.ErrorIs(t, err, ErrNoViews)

	dup := []aggregation.AggregateView{testViews()[0], testViews()[0]}
	err = w.Write(context.Background(), dup, filepath.Join(dir, "b.xlsx"), "run")
	require.ErrorContains(t, err, "duplicate sheet name")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Write(ctx, testViews(), filepath.Join(dir, "c.xlsx"), "run")
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{in: "8800", want: int64(8800)},
		{in: "12.000", want: int64(12)},
		{in: "-5", want: int64(-5)},
		{in: "12.5", want: 12.5},
		{in: "123456789012345", want: int64(123456789012345)},
		{in: "100000000000000000000", want: "100000000000000000000"},
		{in: "9223372036854775808", want: "9223372036854775808"},
		{in: "12345678901234.567", want: "12345678901234.567"},
		{in: "0.00001", want: "0.00001"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, CellValue(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestWorkbookWriter_LargeValuesReadBackUnchanged(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "large.xlsx")
	values := []string{"100000000000000000000", "12345678901234.567", "8800", "1200.5"}

	rows := make([]aggregation.AggregateRow, 0, len(values))
	for i, v := range values {
		rows = append(rows, aggregation.AggregateRow{
			Key:         fmt.Sprintf("k%d", i),
			Value:       decimal.RequireFromString(v),
			RecordCount: 1,
		})
	}
	views := []aggregation.AggregateView{
		{Name: "Total_Sales", Columns: []string{"TotalSalesRevenue"}, Rows: rows[:1]},
		{Name: "Revenue_by_Category", Columns: []string{"Category", "CategoryRevenue"}, Rows: rows},
	}
	require.NoError(t, NewWorkbookWriter("order-insights").Write(context.Background(), views, dest, "run-big"))

	sheets, err := ReadWorkbook(dest)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"TotalSalesRevenue"}, {"100000000000000000000"}}, sheets[0].Rows)
	for i, v := range values {
		require.Equal(t, []string{fmt.Sprintf("k%d", i), v}, sheets[1].Rows[i+1])
	}
}
