package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProviderEventPayment is the provider event kind that carries an actionable
// payment status. Every other event kind is acknowledged and dropped.
const ProviderEventPayment = "payment"

// Provider-side payment statuses as reported by the authoritative lookup.
const (
	ProviderStatusApproved = "approved"
	ProviderStatusPending  = "pending"
	ProviderStatusRejected = "rejected"
)

// CheckoutPreference describes one payment session to be created with the
// external provider. ExternalReference is echoed back in the provider's
// webhook and resolves the event to an internal reservation.
type CheckoutPreference struct {
	PayerEmail        string
	Title             string
	Description       string
	PictureURL        string
	CategoryID        string
	Quantity          int
	UnitPrice         decimal.Decimal
	ExternalReference string
}

// CheckoutSession is the provider's answer to a created preference: the ID of
// the session and the URL the customer is redirected to.
type CheckoutSession struct {
	ID        string
	InitPoint string
}

// ProviderPayment is the authoritative state of one provider-side payment,
// re-fetched by ID. Webhook bodies are never trusted for this.
type ProviderPayment struct {
	ID                string
	Status            string
	ExternalReference string
}

type PaymentProvider interface {
	CreatePreference(ctx context.Context, pref CheckoutPreference) (*CheckoutSession, error)
	GetPayment(ctx context.Context, paymentID string) (*ProviderPayment, error)
}
