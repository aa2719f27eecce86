package dto

import (
	"time"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

// ProfileSettingsInput profile settings input
//
// swagger:model ProfileSettingsInput
type ProfileSettingsInput struct {

	// full name
	// Max Length: 200
	FullName string `json:"full_name,omitempty"`

	// phone
	// Max Length: 30
	Phone string `json:"phone,omitempty"`

	// office name
	// Max Length: 200
	OfficeName string `json:"office_name,omitempty"`

	// office address
	// Max Length: 300
	OfficeAddress string `json:"office_address,omitempty"`

	// office phone
	// Max Length: 30
	OfficePhone string `json:"office_phone,omitempty"`

	// office logo url
	// Format: uri
	OfficeLogoURL strfmt.URI `json:"office_logo_url,omitempty"`

	// theme
	// Enum: [light dark]
	Theme string `json:"theme,omitempty"`

	// accent color
	// Enum: [blue purple green red orange]
	AccentColor string `json:"accent_color,omitempty"`
}

var (
	profileThemeEnum  []interface{}
	profileAccentEnum []interface{}
)

func init() {
	for _, v := range entity.Themes {
		profileThemeEnum = append(profileThemeEnum, v)
	}
	for _, v := range entity.AccentColors {
		profileAccentEnum = append(profileAccentEnum, v)
	}
}

// Validate validates this profile settings input
func (m *ProfileSettingsInput) Validate(formats strfmt.Registry) error {
	var res []error

	for _, f := range []struct {
		name string
		v    string
		max  int64
	}{
		{"full_name", m.FullName, 200},
		{"phone", m.Phone, 30},
		{"office_name", m.OfficeName, 200},
		{"office_address", m.OfficeAddress, 300},
		{"office_phone", m.OfficePhone, 30},
	} {
		if err := validate.MaxLength(f.name, "body", f.v, f.max); err != nil {
			res = append(res, err)
		}
	}
	if m.OfficeLogoURL != "" {
		if err := validate.FormatOf("office_logo_url", "body", "uri", m.OfficeLogoURL.String(), formats); err != nil {
			res = append(res, err)
		}
	}
	if m.Theme != "" {
		if err := validate.EnumCase("theme", "body", m.Theme, profileThemeEnum, true); err != nil {
			res = append(res, err)
		}
	}
	if m.AccentColor != "" {
		if err := validate.EnumCase("accent_color", "body", m.AccentColor, profileAccentEnum, true); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// Profile profile
//
// swagger:model Profile
type Profile struct {
	ID                    strfmt.UUID               `json:"id"`
	Email                 string                    `json:"email"`
	FullName              string                    `json:"full_name"`
	Phone                 string                    `json:"phone"`
	OfficeName            string                    `json:"office_name"`
	OfficeAddress         string                    `json:"office_address"`
	OfficePhone           string                    `json:"office_phone"`
	OfficeLogoURL         string                    `json:"office_logo_url"`
	SubscriptionStatus    entity.SubscriptionStatus `json:"subscription_status"`
	SubscriptionStartDate *strfmt.DateTime          `json:"subscription_start_date"`
	SubscriptionEndDate   *strfmt.DateTime          `json:"subscription_end_date"`
	TrialEndDate          *strfmt.DateTime          `json:"trial_end_date"`
	HasAccess             bool                      `json:"has_access"`
	Theme                 string                    `json:"theme"`
	AccentColor           string                    `json:"accent_color"`
	CreatedAt             strfmt.DateTime           `json:"created_at"`
}

// NewProfile maps a profile to its response body; password hash and provider ids stay private
func NewProfile(p *entity.Profile, now time.Time) *Profile {
	return &Profile{
		ID:                    p.ID,
		Email:                 p.Email,
		FullName:              p.FullName,
		Phone:                 p.Phone,
		OfficeName:            p.OfficeName,
		OfficeAddress:         p.OfficeAddress,
		OfficePhone:           p.OfficePhone,
		OfficeLogoURL:         p.OfficeLogoURL,
		SubscriptionStatus:    p.SubscriptionStatus,
		SubscriptionStartDate: dateTime(p.SubscriptionStartDate),
		SubscriptionEndDate:   dateTime(p.SubscriptionEndDate),
		TrialEndDate:          dateTime(p.TrialEndDate),
		HasAccess:             p.HasAccess(now),
		Theme:                 p.Theme,
		AccentColor:           p.AccentColor,
		CreatedAt:             strfmt.DateTime(p.CreatedAt),
	}
}

// Session session
//
// swagger:model Session
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt strfmt.DateTime `json:"expires_at"`
	Profile   *Profile        `json:"profile"`
}

// Payment payment
//
// swagger:model Payment
type Payment struct {
	ID              strfmt.UUID          `json:"id"`
	Amount          fees.Money           `json:"amount"`
	Currency        string               `json:"currency"`
	Status          entity.PaymentStatus `json:"status"`
	StripePaymentID string               `json:"stripe_payment_id"`
	PaymentMethod   string               `json:"payment_method"`
	InvoiceURL      string               `json:"invoice_url"`
	ReceiptURL      string               `json:"receipt_url"`
	CreatedAt       strfmt.DateTime      `json:"created_at"`
}

// NewPayment maps a recorded payment to its response body
func NewPayment(p *entity.Payment) *Payment {
	return &Payment{
		ID:              p.ID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          p.Status,
		StripePaymentID: p.StripePaymentID,
		PaymentMethod:   p.PaymentMethod,
		InvoiceURL:      p.InvoiceURL,
		ReceiptURL:      p.ReceiptURL,
		CreatedAt:       strfmt.DateTime(p.CreatedAt),
	}
}

func dateTime(t *time.Time) *strfmt.DateTime {
	if t == nil {
		return nil
	}
	v := strfmt.DateTime(*t)
	return &v
}
