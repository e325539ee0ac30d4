package downloads

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookPreview summarizes the first rows of every sheet in a workbook.
type WorkbookPreview struct {
	Sheets []SheetPreview
}

type SheetPreview struct {
	Name      string
	TotalRows int
	Rows      [][]string
}

// PreviewWorkbook opens xlsx bytes and returns up to maxRows non-empty rows
// per sheet. maxRows <= 0 returns every row.
func PreviewWorkbook(data []byte, maxRows int) (*WorkbookPreview, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	preview := &WorkbookPreview{}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}

		sheet := SheetPreview{Name: sheetName}
		for _, row := range rows {
			if isEmptyRow(row) {
				continue
			}
			sheet.TotalRows++
			if maxRows > 0 && len(sheet.Rows) >= maxRows {
				continue
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		preview.Sheets = append(preview.Sheets, sheet)
	}

	return preview, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
