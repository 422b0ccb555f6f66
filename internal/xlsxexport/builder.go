// Package xlsxexport writes projected sheets into a single .xlsx workbook.
package xlsxexport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"declarant/internal/domain"
)

// Builder implements port.WorkbookBuilder with excelize.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build writes one worksheet per sheet, in the given order.
func (b *Builder) Build(sheets []domain.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating wrap style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("renaming first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("adding sheet %q: %w", name, err)
		}

		if err := writeRows(f, name, sheet.Rows, wrap); err != nil {
			return nil, err
		}
		for col, width := range sheet.ColumnWidths {
			colName, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(name, colName, colName, width); err != nil {
				return nil, fmt.Errorf("setting width of %s!%s: %w", name, colName, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, wrapStyle int) error {
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		start, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, r+1, err)
		}
		for c, v := range row {
			if s, ok := v.(string); ok && strings.Contains(s, "\n") {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellStyle(sheet, cell, cell, wrapStyle); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// sheetName enforces the worksheet name rules: at most 31 characters and
// none of : \ / ? * [ ].
func sheetName(name string, index int) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	return name
}
