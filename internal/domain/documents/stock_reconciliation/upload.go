package stock_reconciliation

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"rms/internal/core/apperror"
	"rms/internal/core/types"
)

// uploadHeader is the expected first row of an upload sheet.
var uploadHeader = []string{"Item Code", "Warehouse", "Qty"}

// ReadUpload parses an XLSX workbook whose first sheet lists item code,
// warehouse and counted quantity, one row per item, below a header row.
// Blank rows are skipped.
func ReadUpload(r io.Reader) ([]Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewValidation("Upload must be an .xlsx file").WithCause(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 || !headerMatches(rows[0]) {
		return nil, apperror.NewValidation(
			fmt.Sprintf("First row must be: %s", strings.Join(uploadHeader, ", ")),
		)
	}

	items := make([]Item, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		cells := make([]string, len(uploadHeader))
		copy(cells, row)
		if strings.TrimSpace(cells[0]) == "" && strings.TrimSpace(cells[1]) == "" {
			continue
		}

		qty, err := types.ParseQuantity(strings.TrimSpace(cells[2]))
		if err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("Row %d: invalid quantity %q", line, cells[2])).
				WithDetail("row", line)
		}
		items = append(items, Item{
			ItemCode:  strings.TrimSpace(cells[0]),
			Warehouse: strings.TrimSpace(cells[1]),
			Qty:       qty,
		})
	}
	return items, nil
}

func headerMatches(row []string) bool {
	if len(row) < len(uploadHeader) {
		return false
	}
	for i, h := range uploadHeader {
		if !strings.EqualFold(strings.TrimSpace(row[i]), h) {
			return false
		}
	}
	return true
}
