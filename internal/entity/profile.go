package entity

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// SubscriptionStatus - billing state of a notary office
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Themes and accent colors accepted in profile settings.
var (
	Themes       = []string{"light", "dark"}
	AccentColors = []string{"blue", "purple", "green", "red", "orange"}
)

// Profile - account of a notary or lawyer, one per tenant
type Profile struct {
	// ID - tenant identifier, every owned row references it
	ID strfmt.UUID
	// Email - login, stored lower-case
	Email string
	// PasswordHash - argon2id PHC string
	PasswordHash string
	FullName     string
	Phone        string
	// Office* - letterhead printed on receipts
	OfficeName    string
	OfficeAddress string
	OfficePhone   string
	OfficeLogoURL string
	// SubscriptionStatus - trial until paid, then driven by payment webhooks
	SubscriptionStatus    SubscriptionStatus
	SubscriptionStartDate *time.Time
	SubscriptionEndDate   *time.Time
	TrialEndDate          *time.Time
	TrialNoticeSentAt     *time.Time
	// StripeCustomerID - payment provider customer, created on first checkout
	StripeCustomerID string
	Theme            string
	AccentColor      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasAccess reports whether the office may use paid features at the given time.
func (p *Profile) HasAccess(now time.Time) bool {
	switch p.SubscriptionStatus {
	case SubscriptionActive:
		return p.SubscriptionEndDate == nil || now.Before(*p.SubscriptionEndDate)
	case SubscriptionTrial:
		return p.TrialEndDate != nil && now.Before(*p.TrialEndDate)
	default:
		return false
	}
}

// TrialDaysLeft returns whole days until the trial ends, 0 when not on trial.
func (p *Profile) TrialDaysLeft(now time.Time) int {
	if p.SubscriptionStatus != SubscriptionTrial || p.TrialEndDate == nil {
		return 0
	}
	left := p.TrialEndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}
