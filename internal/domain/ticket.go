package domain

import "context"

// TicketRender is the input for one rendered ticket image.
type TicketRender struct {
	MovieTitle string
	Seats      []string
	Date       string
	Location   string
}

// TicketRenderer turns a reservation into a ticket image with the external
// rendering provider. Render blocks until the image reaches a terminal state
// or the implementation's polling budget runs out (ErrRenderTimeout).
type TicketRenderer interface {
	Render(ctx context.Context, ticket TicketRender) (imageURL string, err error)
}
