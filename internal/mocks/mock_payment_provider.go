package mocks

import (
	"context"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreatePreference(ctx context.Context, pref domain.CheckoutPreference) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, pref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) GetPayment(ctx context.Context, paymentID string) (*domain.ProviderPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderPayment), args.Error(1)
}
