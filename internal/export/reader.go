package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is the raw text content of one worksheet.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadWorkbook returns every sheet of the workbook at path, in tab order.
func ReadWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// Identifier returns the identifier document property set at write time.
func Identifier(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	props, err := f.GetDocProps()
	if err != nil {
		return "", fmt.Errorf("read document properties: %w", err)
	}
	return props.Identifier, nil
}
