package entity

import (
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/fees"
)

// Calculation - a stored fee quote
type Calculation struct {
	ID     strfmt.UUID
	UserID strfmt.UUID
	// ClientID - optional link to an owned client
	ClientID *strfmt.UUID
	// ClientName - snapshot of the client name at creation time
	ClientName string
	// Services - priced lines as computed by the fee schedule
	Services  []fees.PricedLine
	Subtotal  fees.Money
	VAT       fees.Money
	Total     fees.Money
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Template - a named, reusable bundle of service lines
type Template struct {
	ID          strfmt.UUID
	UserID      strfmt.UUID
	Name        string
	Description string
	Services    []fees.Line
	CreatedAt   time.Time
}
