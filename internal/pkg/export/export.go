// Package export writes tabular data to spreadsheet files.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: a header row, data rows and optional footer rows
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	Footer  [][]interface{}
	Widths  map[string]float64 // column letter → width
}

// XLSX renders sheets into a workbook. The first sheet replaces the default one.
func XLSX(sheets ...Sheet) (*bytes.Buffer, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("export: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, err
		}

		if err := writeSheet(f, sh, headerStyle); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeSheet(f *excelize.File, sh Sheet, headerStyle int) error {
	row := 1
	if len(sh.Headers) > 0 {
		for col, h := range sh.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sh.Name, cell, h); err != nil {
				return err
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(sh.Headers), row)
		if err := f.SetCellStyle(sh.Name, "A1", last, headerStyle); err != nil {
			return err
		}
		row++
	}

	for _, values := range append(sh.Rows, sh.Footer...) {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sh.Name, cell, v); err != nil {
				return err
			}
		}
		row++
	}

	for col, width := range sh.Widths {
		if err := f.SetColWidth(sh.Name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}
