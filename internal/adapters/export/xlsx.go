package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// WriteRecordsXLSX writes records (header row first) as a single-sheet
// workbook.
func WriteRecordsXLSX(w io.Writer, records [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
