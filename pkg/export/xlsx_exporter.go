package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

// XLSXExporter renders each dataset into its own worksheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Exporter.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Exporter.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes a workbook with a title row, a header row and the dataset rows per sheet.
func (e *XLSXExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}

	used := make(map[string]int, len(doc.Datasets))
	for i, data := range doc.Datasets {
		sheet := sheetName(data.Name, i, used)
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		title := doc.Title
		if data.Name != "" {
			title = strings.TrimSpace(title + " - " + data.Name)
		}
		if err := f.SetCellValue(sheet, "A1", title); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
		if doc.Subtitle != "" {
			_ = f.SetCellValue(sheet, "A2", doc.Subtitle)
		}

		const headerRow = 4
		for col, header := range data.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return nil, err
			}
			name, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(sheet, name, name, columnWidth(header, data.Rows))
		}
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(data.Headers), headerRow)
		_ = f.SetCellStyle(sheet, first, last, headerStyle)

		for r, row := range data.Rows {
			for col, header := range data.Headers {
				cell, _ := excelize.CoordinatesToCellName(col+1, headerRow+1+r)
				if err := f.SetCellValue(sheet, cell, row[header]); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx drop default sheet: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(name string, index int, used map[string]int) string {
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")
	base := strings.TrimSpace(replacer.Replace(name))
	if base == "" || strings.EqualFold(base, "Sheet1") {
		base = fmt.Sprintf("Data %d", index+1)
	}
	if runes := []rune(base); len(runes) > maxSheetNameLen-3 {
		base = string(runes[:maxSheetNameLen-3])
	}
	used[base]++
	if used[base] > 1 {
		return fmt.Sprintf("%s %d", base, used[base])
	}
	return base
}

func columnWidth(header string, rows []map[string]string) float64 {
	width := len([]rune(header))
	for _, row := range rows {
		if l := len([]rune(row[header])); l > width {
			width = l
		}
	}
	if width > 60 {
		width = 60
	}
	return float64(width + 2)
}
