// Package ticket renders reservation ticket images with the Placid API.
// Image generation is asynchronous on the provider side: an initial POST
// starts the render and a polling URL reports progress until the image is
// finished or failed.
package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
)

const defaultBaseURL = "https://api.placid.app"

const (
	statusFinished = "finished"
	statusFailed   = "failed"
)

type PlacidRenderer struct {
	baseURL      string
	apiKey       string
	templateID   string
	maxAttempts  int
	pollInterval time.Duration
	client       *http.Client
}

func NewPlacidRenderer(baseURL, apiKey, templateID string) *PlacidRenderer {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &PlacidRenderer{
		baseURL:      baseURL,
		apiKey:       apiKey,
		templateID:   templateID,
		maxAttempts:  10,
		pollInterval: 2 * time.Second,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type textLayer struct {
	Text string `json:"text"`
}

type renderRequest struct {
	TemplateUUID string               `json:"template_uuid"`
	Layers       map[string]textLayer `json:"layers"`
}

type renderResponse struct {
	Status     string `json:"status"`
	ImageURL   string `json:"image_url"`
	PollingURL string `json:"polling_url"`
}

// Render starts an image render and polls until it finishes. The polling
// budget is fixed: if the provider has not reported a terminal state after
// maxAttempts polls, Render gives up with ErrRenderTimeout instead of
// blocking the caller indefinitely.
func (p *PlacidRenderer) Render(ctx context.Context, ticket domain.TicketRender) (string, error) {
	body := renderRequest{
		TemplateUUID: p.templateID,
		Layers: map[string]textLayer{
			"title":    {Text: ticket.MovieTitle},
			"seat":     {Text: strings.Join(ticket.Seats, ", ")},
			"date":     {Text: ticket.Date},
			"location": {Text: ticket.Location},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/rest/images", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	state, err := p.do(req)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < p.maxAttempts && state.Status != statusFinished; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.pollInterval):
		}

		state, err = p.poll(ctx, state.PollingURL)
		if err != nil {
			return "", err
		}

		if state.Status == statusFailed {
			return "", fmt.Errorf("ticket render failed at the provider")
		}
	}

	if state.Status != statusFinished || state.ImageURL == "" {
		return "", domain.ErrRenderTimeout
	}

	return state.ImageURL, nil
}

func (p *PlacidRenderer) poll(ctx context.Context, pollingURL string) (*renderResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollingURL, nil)
	if err != nil {
		return nil, err
	}

	return p.do(req)
}

func (p *PlacidRenderer) do(req *http.Request) (*renderResponse, error) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("placid: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	var state renderResponse

	err = json.NewDecoder(resp.Body).Decode(&state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}
