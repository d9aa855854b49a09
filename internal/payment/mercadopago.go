package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.mercadopago.com"

// MercadoPagoProvider talks to the Mercado Pago REST API: preference creation
// for the checkout redirect, and the authoritative payment lookup the webhook
// handler re-queries instead of trusting notification bodies.
type MercadoPagoProvider struct {
	baseURL     string
	accessToken string
	returnURL   string
	client      *http.Client
}

func NewMercadoPagoProvider(baseURL, accessToken, returnURL string) *MercadoPagoProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &MercadoPagoProvider{
		baseURL:     baseURL,
		accessToken: accessToken,
		returnURL:   returnURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type preferenceItem struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	PictureURL  string          `json:"picture_url,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type preferenceRequest struct {
	PayerEmail        string             `json:"payer_email"`
	Items             []preferenceItem   `json:"items"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	ExternalReference string             `json:"external_reference"`
	AutoReturn        string             `json:"auto_return"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

func (m *MercadoPagoProvider) CreatePreference(ctx context.Context, pref domain.CheckoutPreference) (*domain.CheckoutSession, error) {
	body := preferenceRequest{
		PayerEmail: pref.PayerEmail,
		Items: []preferenceItem{
			{
				Title:       pref.Title,
				Description: pref.Description,
				PictureURL:  pref.PictureURL,
				CategoryID:  pref.CategoryID,
				Quantity:    pref.Quantity,
				UnitPrice:   pref.UnitPrice,
			},
		},
		BackURLs: preferenceBackURLs{
			Success: m.returnURL + "/pago/exitoso",
			Pending: m.returnURL + "/pago/pendiente",
			Failure: m.returnURL + "/pago/fallido",
		},
		ExternalReference: pref.ExternalReference,
		AutoReturn:        "all",
	}

	var resp preferenceResponse

	err := m.post(ctx, "/checkout/preferences", body, &resp)
	if err != nil {
		return nil, err
	}

	return &domain.CheckoutSession{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}

func (m *MercadoPagoProvider) GetPayment(ctx context.Context, paymentID string) (*domain.ProviderPayment, error) {
	var resp paymentResponse

	err := m.get(ctx, "/v1/payments/"+paymentID, &resp)
	if err != nil {
		return nil, err
	}

	return &domain.ProviderPayment{
		ID:                resp.ID.String(),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func (m *MercadoPagoProvider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	return m.do(req, out)
}

func (m *MercadoPagoProvider) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return err
	}

	return m.do(req, out)
}

func (m *MercadoPagoProvider) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+m.accessToken)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mercado pago: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
