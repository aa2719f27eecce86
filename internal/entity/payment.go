package entity

import (
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/fees"
)

// PaymentStatus - outcome of a charge attempt
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment - a charge recorded from payment provider webhooks
type Payment struct {
	ID              strfmt.UUID
	UserID          strfmt.UUID
	Amount          fees.Money
	Currency        string
	Status          PaymentStatus
	StripePaymentID string
	PaymentMethod   string
	InvoiceURL      string
	ReceiptURL      string
	CreatedAt       time.Time
}

// EmailMessage - a rendered transactional email
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	// Kind - template name, used for metrics and logs
	Kind string
}
