// Package export renders clients and calculations as CSV, XLSX and printable HTML.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

// BOM makes Excel open UTF-8 (Hebrew) CSV files correctly.
const BOM = "\uFEFF"

const timeLayout = "2006-01-02 15:04"

// Column - one exported field
type Column[T any] struct {
	Header string
	Value  func(T) any
}

var ClientColumns = []Column[*entity.Client]{
	{Header: "Name", Value: func(c *entity.Client) any { return c.Name }},
	{Header: "ID Number", Value: func(c *entity.Client) any { return c.IDNumber }},
	{Header: "Phone", Value: func(c *entity.Client) any { return c.Phone }},
	{Header: "Email", Value: func(c *entity.Client) any { return c.Email }},
	{Header: "Address", Value: func(c *entity.Client) any { return c.Address }},
	{Header: "Notes", Value: func(c *entity.Client) any { return c.Notes }},
	{Header: "Created", Value: func(c *entity.Client) any { return c.CreatedAt }},
}

var CalculationColumns = []Column[*entity.Calculation]{
	{Header: "Date", Value: func(c *entity.Calculation) any { return c.CreatedAt }},
	{Header: "Client", Value: func(c *entity.Calculation) any { return c.ClientName }},
	{Header: "Services", Value: func(c *entity.Calculation) any { return c.Services }},
	{Header: "Subtotal", Value: func(c *entity.Calculation) any { return c.Subtotal }},
	{Header: "VAT", Value: func(c *entity.Calculation) any { return c.VAT }},
	{Header: "Total", Value: func(c *entity.Calculation) any { return c.Total }},
	{Header: "Notes", Value: func(c *entity.Calculation) any { return c.Notes }},
}

// WriteCSV writes a BOM, a header row and one row per item.
// Strings are always quoted and neutralized against formula evaluation, nested values are written
// as quoted JSON, numbers are bare.
func WriteCSV[T any](w io.Writer, rows []T, cols []Column[T]) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(BOM); err != nil {
		return err
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	if _, err := bw.WriteString(strings.Join(headers, ",")); err != nil {
		return err
	}

	fields := make([]string, len(cols))
	for _, row := range rows {
		for i, c := range cols {
			f, err := csvField(c.Value(row))
			if err != nil {
				return fmt.Errorf("csv column %q: %w", c.Header, err)
			}
			fields[i] = f
		}
		if _, err := bw.WriteString("\n" + strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvField(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return quote(x), nil
	case time.Time:
		if x.IsZero() {
			return "", nil
		}
		return quote(x.UTC().Format(timeLayout)), nil
	case fees.Money:
		return x.String(), nil
	case int, int64, float64, bool:
		return fmt.Sprint(x), nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		return quote(string(b)), nil
	}
}

// quote wraps s in double quotes. Values a spreadsheet would evaluate as a formula get a leading apostrophe.
func quote(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		s = "'" + s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
