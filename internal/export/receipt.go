package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
	_ "time/tzdata"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

//go:embed templates/receipt.html
var receiptFS embed.FS

var receiptTmpl = template.Must(template.ParseFS(receiptFS, "templates/receipt.html"))

// receiptLocation is used for the printed date.
var receiptLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		return time.UTC
	}
	return loc
}()

type receiptOffice struct {
	Name     string
	FullName string
	Address  string
	Phone    string
	Email    string
	LogoURL  string
}

type receiptLine struct {
	Description string
	Details     []string
	Cost        fees.Money
}

type receiptData struct {
	Title      string
	Office     receiptOffice
	ID         string
	ClientName string
	Date       string
	Lines      []receiptLine
	Subtotal   fees.Money
	VAT        fees.Money
	VATPercent int64
	Total      fees.Money
	Notes      string
	Year       int
}

// WriteReceipt renders a printable right-to-left receipt of a calculation with the office letterhead.
func WriteReceipt(w io.Writer, office *entity.Profile, c *entity.Calculation) error {
	if c == nil {
		return fmt.Errorf("render receipt: nil calculation")
	}
	data := receiptData{
		Title:      "חישוב שכר נוטריון",
		ID:         c.ID.String(),
		ClientName: c.ClientName,
		Date:       c.CreatedAt.In(receiptLocation).Format("02/01/2006 15:04"),
		Subtotal:   c.Subtotal,
		VAT:        c.VAT,
		VATPercent: int64(fees.VATPercent),
		Total:      c.Total,
		Notes:      c.Notes,
		Year:       c.CreatedAt.In(receiptLocation).Year(),
	}
	if office != nil {
		data.Office = receiptOffice{
			Name:     office.OfficeName,
			FullName: office.FullName,
			Address:  office.OfficeAddress,
			Phone:    office.OfficePhone,
			Email:    office.Email,
			LogoURL:  office.OfficeLogoURL,
		}
	}
	for _, l := range c.Services {
		data.Lines = append(data.Lines, receiptLine{
			Description: l.Description,
			Details:     lineDetails(l),
			Cost:        l.Cost,
		})
	}
	if err := receiptTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}

func lineDetails(l fees.PricedLine) []string {
	var out []string
	if l.Quantity > 1 {
		out = append(out, fmt.Sprintf("כמות: %d", l.Quantity))
	}
	if l.Copies > 1 {
		out = append(out, fmt.Sprintf("עותקים: %d", l.Copies))
	}
	if l.Pages > 1 {
		out = append(out, fmt.Sprintf("עמודים: %d", l.Pages))
	}
	if l.Words > 0 {
		out = append(out, fmt.Sprintf("מילים: %d", l.Words))
	}
	for _, it := range l.Items {
		out = append(out, fmt.Sprintf("%s: %s = ₪%s", it.Text, it.Calc, it.Amount))
	}
	return out
}
