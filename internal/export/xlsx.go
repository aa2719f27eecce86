package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

const calculationsSheet = "Calculations"

var calculationWidths = []float64{18, 24, 48, 12, 12, 12, 30}

// CalculationsXLSX builds a right-to-left workbook with one row per calculation and a totals row.
func CalculationsXLSX(calcs []*entity.Calculation) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(calculationsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	rtl := true
	if err := f.SetSheetView(calculationsSheet, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		f.Close()
		return nil, fmt.Errorf("set sheet view: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create total style: %w", err)
	}

	for i, c := range CalculationColumns {
		if err := setCell(f, i+1, 1, c.Header, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(calculationsSheet, col, col, calculationWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	var subtotal, vat, total fees.Money
	for i, c := range calcs {
		row := i + 2
		values := []any{
			c.CreatedAt.UTC().Format(timeLayout),
			c.ClientName,
			serviceSummary(c.Services),
			shekels(c.Subtotal),
			shekels(c.VAT),
			shekels(c.Total),
			c.Notes,
		}
		for col, v := range values {
			style := 0
			if _, ok := v.(float64); ok {
				style = moneyStyle
			}
			if err := setCell(f, col+1, row, v, style); err != nil {
				f.Close()
				return nil, err
			}
		}
		subtotal += c.Subtotal
		vat += c.VAT
		total += c.Total
	}

	last := len(calcs) + 2
	for col, v := range map[int]any{2: "סה\"כ", 4: shekels(subtotal), 5: shekels(vat), 6: shekels(total)} {
		if err := setCell(f, col, last, v, totalStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetPanes(calculationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(calculationsSheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	if style != 0 {
		if err := f.SetCellStyle(calculationsSheet, cell, cell, style); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}
	return nil
}

func serviceSummary(lines []fees.PricedLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		name := l.Description
		if name == "" {
			name = string(l.Type)
		}
		if l.Quantity > 1 {
			name = fmt.Sprintf("%s ×%d", name, l.Quantity)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "; ")
}

func shekels(m fees.Money) float64 {
	return float64(m) / 100
}
