// Package stripe implements the payment provider port on top of stripe-go.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"notarycalc/internal/fees"
	"notarycalc/internal/usecase"
)

// metadataUserID links provider objects back to a profile.
const metadataUserID = "user_id"

var ErrNoSecret = errors.New("stripe secret key is not configured")

type customerAPI interface {
	New(params *stripe.CustomerParams) (*stripe.Customer, error)
}

type checkoutAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type subscriptionAPI interface {
	Get(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

// Provider talks to the Stripe API and verifies its webhooks.
type Provider struct {
	customers     customerAPI
	checkout      checkoutAPI
	subscriptions subscriptionAPI
	webhookSecret string
	currency      string
}

// New creates a provider for the given secret key and webhook signing secret.
func New(secretKey, webhookSecret, currency string) (*Provider, error) {
	if secretKey == "" {
		return nil, ErrNoSecret
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Provider{
		customers:     sc.Customers,
		checkout:      sc.CheckoutSessions,
		subscriptions: sc.Subscriptions,
		webhookSecret: webhookSecret,
		currency:      currency,
	}, nil
}

func (p *Provider) CreateCustomer(ctx context.Context, email string, userID strfmt.UUID) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	params.AddMetadata(metadataUserID, userID.String())

	c, err := p.customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return c.ID, nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:          stripe.String(req.CustomerID),
		ClientReferenceID: stripe.String(req.UserID.String()),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{metadataUserID: req.UserID.String()},
		},
	}
	if p.currency != "" {
		params.Currency = stripe.String(p.currency)
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, req.UserID.String())

	s, err := p.checkout.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &usecase.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *Provider) SubscriptionOwner(ctx context.Context, subscriptionID string) (strfmt.UUID, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := p.subscriptions.Get(subscriptionID, params)
	if err != nil {
		return "", fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	return strfmt.UUID(sub.Metadata[metadataUserID]), nil
}

// ParseWebhook verifies the Stripe-Signature header and reduces the event to a BillingEvent.
func (p *Provider) ParseWebhook(payload []byte, signature string) (*usecase.BillingEvent, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrInvalidSignature, err)
	}

	out := &usecase.BillingEvent{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil {
		return out, nil
	}

	switch out.Type {
	case usecase.EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		out.UserID = strfmt.UUID(s.Metadata[metadataUserID])
		if out.UserID == "" {
			out.UserID = strfmt.UUID(s.ClientReferenceID)
		}
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		if s.Subscription != nil {
			out.SubscriptionID = s.Subscription.ID
		}
		out.Amount = fees.Money(s.AmountTotal)
		out.Currency = string(s.Currency)
		out.PaymentID = s.ID
		if s.PaymentIntent != nil && s.PaymentIntent.ID != "" {
			out.PaymentID = s.PaymentIntent.ID
		}

	case usecase.EventSubscriptionUpdated, usecase.EventSubscriptionDeleted:
		var s stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		out.UserID = strfmt.UUID(s.Metadata[metadataUserID])
		out.SubscriptionID = s.ID
		out.SubscriptionStatus = string(s.Status)
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		if s.CurrentPeriodEnd > 0 {
			end := time.Unix(s.CurrentPeriodEnd, 0).UTC()
			out.PeriodEnd = &end
		}

	case usecase.EventInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}
		if inv.Customer != nil {
			out.CustomerID = inv.Customer.ID
		}
		out.Amount = fees.Money(inv.AmountDue)
		out.Currency = string(inv.Currency)
		out.PaymentID = inv.ID
		if inv.PaymentIntent != nil && inv.PaymentIntent.ID != "" {
			out.PaymentID = inv.PaymentIntent.ID
		}
	}
	return out, nil
}
