package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
	"notarycalc/internal/metrics"
)

// webhookDedupeTTL covers the provider's retry window.
const webhookDedupeTTL = 72 * time.Hour

const defaultCurrency = "ILS"

// BillingSettings — subscription product and redirect targets
type BillingSettings struct {
	PriceID string
	BaseURL string
}

// Billing coordinates subscription checkout and payment webhooks
type Billing struct {
	Pr       ProfileRepository
	Payments PaymentRepository
	Provider PaymentProvider
	Deduper  EventDeduper
	Settings BillingSettings
	// Now - clock, replaced in tests
	Now func() time.Time
	log *slog.Logger
}

// NewBilling creates the billing use case; a nil logger falls back to slog.Default
func NewBilling(pr ProfileRepository, payments PaymentRepository, provider PaymentProvider, deduper EventDeduper, settings BillingSettings, log *slog.Logger) *Billing {
	if log == nil {
		log = slog.Default()
	}
	return &Billing{
		Pr:       pr,
		Payments: payments,
		Provider: provider,
		Deduper:  deduper,
		Settings: settings,
		Now:      time.Now,
		log:      log,
	}
}

// Checkout opens a hosted subscription checkout, creating the provider customer on first use
func (s *Billing) Checkout(ctx context.Context, userID strfmt.UUID) (*CheckoutSession, error) {
	if s.Provider == nil || s.Settings.PriceID == "" {
		return nil, ErrBillingUnavailable
	}
	p, err := s.Pr.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID := p.StripeCustomerID
	if customerID == "" {
		customerID, err = s.Provider.CreateCustomer(ctx, p.Email, p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBillingUnavailable, err)
		}
		if err := s.Pr.SetCustomerID(ctx, p.ID, customerID); err != nil {
			return nil, err
		}
	}

	session, err := s.Provider.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		UserID:     p.ID,
		PriceID:    s.Settings.PriceID,
		SuccessURL: s.Settings.BaseURL + "/dashboard?success=true",
		CancelURL:  s.Settings.BaseURL + "/dashboard?canceled=true",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBillingUnavailable, err)
	}
	return session, nil
}

// ListPayments returns the owner's payments, newest first
func (s *Billing) ListPayments(ctx context.Context, userID strfmt.UUID, limit, offset int) ([]*entity.Payment, error) {
	if !validID(userID) {
		return nil, ErrUnauthorized
	}
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.Payments.ListPayments(ctx, userID, limit, offset)
}

// HandleWebhook verifies and applies a provider event. Redelivered events are acknowledged without effect.
func (s *Billing) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.Provider == nil {
		return ErrBillingUnavailable
	}
	if signature == "" {
		return fmt.Errorf("%w: missing signature", ErrInvalidSignature)
	}
	ev, err := s.Provider.ParseWebhook(payload, signature)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return err
	}

	log := s.log.With(slog.String("event_id", ev.ID), slog.String("event_type", ev.Type))

	if s.Deduper != nil {
		first, err := s.Deduper.FirstSeen(ctx, ev.ID, webhookDedupeTTL)
		if err != nil {
			log.Warn("webhook dedupe unavailable", slog.Any("err", err))
		} else if !first {
			log.Info("webhook already processed")
			metrics.WebhookEvents.WithLabelValues(ev.Type, "duplicate").Inc()
			return nil
		}
	}

	if err := s.apply(ctx, log, ev); err != nil {
		metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
		if s.Deduper != nil {
			if ferr := s.Deduper.Forget(ctx, ev.ID); ferr != nil {
				log.Warn("webhook dedupe forget failed", slog.Any("err", ferr))
			}
		}
		return err
	}
	metrics.WebhookEvents.WithLabelValues(ev.Type, "ok").Inc()
	return nil
}

func (s *Billing) apply(ctx context.Context, log *slog.Logger, ev *BillingEvent) error {
	now := s.Now().UTC()

	switch ev.Type {
	case EventCheckoutCompleted:
		userID, err := s.owner(ctx, ev)
		if err != nil {
			return err
		}
		if unattributed(log, userID, ev.SubscriptionID) {
			return nil
		}
		if err := s.Pr.UpdateSubscription(ctx, userID, SubscriptionUpdate{
			Status:     entity.SubscriptionActive,
			StartDate:  &now,
			CustomerID: ev.CustomerID,
		}); err != nil {
			return err
		}
		_, err = s.Payments.SavePayment(ctx, &entity.Payment{
			UserID:          userID,
			Amount:          ev.Amount,
			Currency:        currency(ev.Currency),
			Status:          entity.PaymentSuccess,
			StripePaymentID: ev.PaymentID,
		})
		return err

	case EventSubscriptionUpdated:
		if unattributed(log, ev.UserID, ev.SubscriptionID) {
			return nil
		}
		end := now
		if ev.PeriodEnd != nil {
			end = ev.PeriodEnd.UTC()
		}
		return s.Pr.UpdateSubscription(ctx, ev.UserID, SubscriptionUpdate{
			Status:  SubscriptionStatusFor(ev.SubscriptionStatus),
			EndDate: &end,
		})

	case EventSubscriptionDeleted:
		if unattributed(log, ev.UserID, ev.SubscriptionID) {
			return nil
		}
		return s.Pr.UpdateSubscription(ctx, ev.UserID, SubscriptionUpdate{
			Status:  entity.SubscriptionCancelled,
			EndDate: &now,
		})

	case EventInvoicePaymentFailed:
		if ev.SubscriptionID == "" {
			return nil
		}
		userID, err := s.Provider.SubscriptionOwner(ctx, ev.SubscriptionID)
		if err != nil {
			return err
		}
		if unattributed(log, userID, ev.SubscriptionID) {
			return nil
		}
		if err := s.Pr.UpdateSubscription(ctx, userID, SubscriptionUpdate{Status: entity.SubscriptionExpired}); err != nil {
			return err
		}
		_, err = s.Payments.SavePayment(ctx, &entity.Payment{
			UserID:          userID,
			Amount:          ev.Amount,
			Currency:        currency(ev.Currency),
			Status:          entity.PaymentFailed,
			StripePaymentID: ev.PaymentID,
		})
		return err

	default:
		log.Info("unhandled webhook event")
		return nil
	}
}

// owner resolves the user of a completed checkout from its metadata or its subscription
func (s *Billing) owner(ctx context.Context, ev *BillingEvent) (strfmt.UUID, error) {
	if validID(ev.UserID) || ev.SubscriptionID == "" {
		return ev.UserID, nil
	}
	return s.Provider.SubscriptionOwner(ctx, ev.SubscriptionID)
}

// unattributed reports and logs events whose owner is missing or not a user id; they are acknowledged without effect
func unattributed(log *slog.Logger, userID strfmt.UUID, subscriptionID string) bool {
	if validID(userID) {
		return false
	}
	log.Warn("webhook event without a valid owner",
		slog.String("user_id", userID.String()),
		slog.String("subscription_id", subscriptionID),
	)
	return true
}

// SubscriptionStatusFor maps a provider subscription status onto the account status
func SubscriptionStatusFor(providerStatus string) entity.SubscriptionStatus {
	switch providerStatus {
	case "canceled":
		return entity.SubscriptionCancelled
	case "past_due", "unpaid":
		return entity.SubscriptionExpired
	default:
		return entity.SubscriptionActive
	}
}

func currency(c string) string {
	if c == "" {
		return defaultCurrency
	}
	return strings.ToUpper(c)
}
