package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aevon-lab/order-insights/internal/core/aggregation"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates in every new workbook.
const defaultSheet = "Sheet1"

// ErrNoViews is returned when asked to export an empty view set.
var ErrNoViews = errors.New("no views to export")

// WorkbookWriter writes aggregate views to an .xlsx workbook, one sheet per view.
type WorkbookWriter struct {
	creator string
}

func NewWorkbookWriter(creator string) *WorkbookWriter {
	return &WorkbookWriter{creator: creator}
}

// Write renders views into a workbook at destination, creating or replacing it.
//
// The workbook is first written to a temp file in the destination directory
// and renamed into place, so destination never holds a partial workbook.
// runID is stored as the workbook identifier property.
func (w *WorkbookWriter) Write(ctx context.Context, views []aggregation.AggregateView, destination, runID string) (err error) {
	if len(views) == 0 {
		return ErrNoViews
	}

	f, err := w.build(views, runID)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(destination)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destination)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp workbook in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = f.WriteTo(tmp); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync workbook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod workbook: %w", err)
	}
	if err = os.Rename(tmpPath, destination); err != nil {
		return fmt.Errorf("move workbook into place: %w", err)
	}

	slog.Info("[Export] Workbook written",
		"path", destination,
		"sheets", len(views),
		"run_id", runID,
	)
	return nil
}

func (w *WorkbookWriter) build(views []aggregation.AggregateView, runID string) (*excelize.File, error) {
	f := excelize.NewFile()

	seen := make(map[string]bool, len(views))
	for i, view := range views {
		key := strings.ToLower(view.Name)
		if seen[key] {
			f.Close()
			return nil, fmt.Errorf("sheet %q: duplicate sheet name", view.Name)
		}
		seen[key] = true

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, view.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %q: %w", view.Name, err)
			}
		} else if _, err := f.NewSheet(view.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", view.Name, err)
		}
		if err := writeSheet(f, view); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", view.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:    w.creator,
		Title:      "Order insights",
		Identifier: runID,
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("set document properties: %w", err)
	}
	return f, nil
}

// writeSheet writes the header row then one row per group, starting at A1.
func writeSheet(f *excelize.File, view aggregation.AggregateView) error {
	header := make([]interface{}, len(view.Columns))
	for i, c := range view.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(view.Name, "A1", &header); err != nil {
		return err
	}

	for i, row := range view.Rows {
		cells := make([]interface{}, 0, 2)
		if view.Grouped() {
			cells = append(cells, row.Key)
		}
		cells = append(cells, CellValue(row.Value))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(view.Name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// excelPrecision is the number of significant digits Excel keeps for a
// numeric cell.
const excelPrecision = 15

// CellValue converts a decimal to the cell type that reads back as the same
// number: integers stay integers, other values become floats. Values Excel
// cannot hold exactly, or would render in exponent form, are written as text.
func CellValue(d decimal.Decimal) interface{} {
	f, _ := d.Float64()
	if strconv.FormatFloat(f, 'G', excelPrecision, 64) != d.String() {
		return d.String()
	}
	if d.IsInteger() && d.BigInt().IsInt64() {
		return d.IntPart()
	}
	if !decimal.NewFromFloat(f).Equal(d) {
		return d.String()
	}
	return f
}
