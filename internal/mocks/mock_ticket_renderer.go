package mocks

import (
	"context"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTicketRenderer struct {
	mock.Mock
	domain.TicketRenderer
}

func (m *MockTicketRenderer) Render(ctx context.Context, ticket domain.TicketRender) (string, error) {
	args := m.Called(ctx, ticket)
	return args.String(0), args.Error(1)
}
