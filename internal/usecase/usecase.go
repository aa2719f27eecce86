package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

//go:generate go run github.com/golang/mock/mockgen@v1.6.0 -destination=usecase_mock.go -package=usecase notarycalc/internal/usecase ProfileRepository,ClientRepository,CalculationRepository,TemplateRepository,PaymentRepository,SessionStore,RateLimiter,EventDeduper,PaymentProvider,Mailer

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidClient      = errors.New("invalid client")
	ErrInvalidCalculation = errors.New("invalid calculation")
	ErrInvalidTemplate    = errors.New("invalid template")
	ErrInvalidPayment     = errors.New("invalid payment")
	ErrInvalidPagination  = errors.New("invalid pagination")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrBillingUnavailable = errors.New("billing unavailable")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Period — date range, both bounds inclusive
type Period struct {
	// From - start of the period (inclusive)
	From time.Time
	// To - end of the period (inclusive), zero means open-ended
	To time.Time
}

// ClientFilter — listing filter for clients of one tenant
type ClientFilter struct {
	// UserID - owning tenant, required
	UserID strfmt.UUID
	// Search - case-insensitive match over name, id number, phone and email
	Search string
	Limit  int
	Offset int
}

// CalcFilter — listing/aggregation filter for calculations of one tenant
type CalcFilter struct {
	// UserID - owning tenant, required
	UserID strfmt.UUID
	// ClientID - only calculations linked to this client
	ClientID *strfmt.UUID
	// Period - creation time range
	Period *Period
	Limit  int
	Offset int
}

// CalcTotals — count and revenue of matching calculations
type CalcTotals struct {
	Count int64
	Total fees.Money
}

// SubscriptionUpdate — fields changed by billing events; nil/empty fields are left untouched
type SubscriptionUpdate struct {
	Status     entity.SubscriptionStatus
	StartDate  *time.Time
	EndDate    *time.Time
	CustomerID string
}

// ProfileRepository — accounts and their subscription state
type ProfileRepository interface {
	// CreateProfile - insert a new account, ErrEmailTaken on duplicate email
	CreateProfile(ctx context.Context, p *entity.Profile) (*entity.Profile, error)
	GetProfileByID(ctx context.Context, id strfmt.UUID) (*entity.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*entity.Profile, error)
	// UpdateProfile - update personal and office settings
	UpdateProfile(ctx context.Context, p *entity.Profile) error
	UpdatePassword(ctx context.Context, id strfmt.UUID, hash string) error
	SetCustomerID(ctx context.Context, id strfmt.UUID, customerID string) error
	UpdateSubscription(ctx context.Context, id strfmt.UUID, u SubscriptionUpdate) error
	// ListTrialsEnding - trial accounts ending within [from, to] that were not notified yet
	ListTrialsEnding(ctx context.Context, from, to time.Time) ([]*entity.Profile, error)
	MarkTrialNoticeSent(ctx context.Context, id strfmt.UUID, at time.Time) error
}

// ClientRepository — CRUD for clients, always scoped by owner
type ClientRepository interface {
	SaveClient(ctx context.Context, c *entity.Client) (*entity.Client, error)
	UpdateClient(ctx context.Context, c *entity.Client) error
	DeleteClient(ctx context.Context, userID, id strfmt.UUID) error
	GetClientByID(ctx context.Context, userID, id strfmt.UUID) (*entity.Client, error)
	ListClients(ctx context.Context, f ClientFilter) ([]*entity.Client, error)
	CountClients(ctx context.Context, userID strfmt.UUID) (int64, error)
}

// CalculationRepository — calculation history plus aggregations
type CalculationRepository interface {
	SaveCalculation(ctx context.Context, c *entity.Calculation) (*entity.Calculation, error)
	DeleteCalculation(ctx context.Context, userID, id strfmt.UUID) error
	GetCalculationByID(ctx context.Context, userID, id strfmt.UUID) (*entity.Calculation, error)
	ListCalculations(ctx context.Context, f CalcFilter) ([]*entity.Calculation, error)
	// CalculationsSince - every calculation created at or after since, newest first
	CalculationsSince(ctx context.Context, userID strfmt.UUID, since time.Time) ([]*entity.Calculation, error)
	SumCalculations(ctx context.Context, f CalcFilter) (CalcTotals, error)
}

// TemplateRepository — saved service bundles
type TemplateRepository interface {
	SaveTemplate(ctx context.Context, t *entity.Template) (*entity.Template, error)
	UpdateTemplate(ctx context.Context, t *entity.Template) error
	DeleteTemplate(ctx context.Context, userID, id strfmt.UUID) error
	GetTemplateByID(ctx context.Context, userID, id strfmt.UUID) (*entity.Template, error)
	ListTemplates(ctx context.Context, userID strfmt.UUID) ([]*entity.Template, error)
}

// PaymentRepository — payment history
type PaymentRepository interface {
	SavePayment(ctx context.Context, p *entity.Payment) (*entity.Payment, error)
	ListPayments(ctx context.Context, userID strfmt.UUID, limit, offset int) ([]*entity.Payment, error)
}

// SessionStore — opaque login sessions and password reset tokens
type SessionStore interface {
	CreateSession(ctx context.Context, userID strfmt.UUID, ttl time.Duration) (string, error)
	// ResolveSession - ErrUnauthorized for unknown or expired tokens
	ResolveSession(ctx context.Context, token string) (strfmt.UUID, error)
	DeleteSession(ctx context.Context, token string) error
	CreateResetToken(ctx context.Context, userID strfmt.UUID, ttl time.Duration) (string, error)
	// ConsumeResetToken - single use, ErrInvalidResetToken for unknown or expired tokens
	ConsumeResetToken(ctx context.Context, token string) (strfmt.UUID, error)
}

// RateLimiter — token bucket keyed by an arbitrary string
type RateLimiter interface {
	Allow(ctx context.Context, key string, perMinute, burst int) (bool, error)
}

// EventDeduper — remembers processed webhook event ids
type EventDeduper interface {
	// FirstSeen - true the first time an id is seen within ttl
	FirstSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// Forget - drop an id so a redelivery is processed again
	Forget(ctx context.Context, eventID string) error
}

// CheckoutRequest — input for a hosted subscription checkout
type CheckoutRequest struct {
	CustomerID string
	UserID     strfmt.UUID
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession — hosted checkout the browser is redirected to
type CheckoutSession struct {
	ID  string
	URL string
}

// Billing event types delivered by the payment provider.
const (
	EventCheckoutCompleted    = "checkout.session.completed"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

// BillingEvent — provider webhook reduced to the fields the service reacts to
type BillingEvent struct {
	ID   string
	Type string
	// UserID - owner taken from the object's metadata, may be empty
	UserID         strfmt.UUID
	CustomerID     string
	SubscriptionID string
	// SubscriptionStatus - provider status string (active, past_due, canceled, ...)
	SubscriptionStatus string
	PeriodEnd          *time.Time
	// Amount - in minor units of Currency
	Amount    fees.Money
	Currency  string
	PaymentID string
}

// PaymentProvider — hosted payments (checkout, webhooks, subscriptions)
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, email string, userID strfmt.UUID) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook - verify the signature header and decode the event, ErrInvalidSignature on mismatch
	ParseWebhook(payload []byte, signature string) (*BillingEvent, error)
	// SubscriptionOwner - user id stored in the subscription metadata
	SubscriptionOwner(ctx context.Context, subscriptionID string) (strfmt.UUID, error)
}

// Mailer — transactional email delivery
type Mailer interface {
	Send(ctx context.Context, msg entity.EmailMessage) error
}

// normalizePage applies list defaults and bounds
func normalizePage(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, ErrInvalidPagination
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	return limit, offset, nil
}

func validID(id strfmt.UUID) bool {
	return id != "" && strfmt.IsUUID(id.String())
}
