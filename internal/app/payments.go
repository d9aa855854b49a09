package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
)

// webhookDedupTTL bounds how long a processed provider notification is
// remembered. The provider stops retrying well before this.
const webhookDedupTTL = 24 * time.Hour

func (app *Application) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	var req api.PaymentLinkRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), req.ReservationId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if reservation.PaymentStatus != domain.PaymentStatusPending {
		app.invalidStateResponse(w, r, "Reservation payment is already settled")
		return
	}

	pref := domain.CheckoutPreference{
		PayerEmail:        req.PayerEmail,
		Title:             req.Title,
		Description:       req.Description,
		PictureURL:        req.PictureURL,
		CategoryID:        req.CategoryId,
		Quantity:          req.Quantity,
		UnitPrice:         req.UnitPrice,
		ExternalReference: reservation.ExternalReference,
	}

	session, err := app.paymentProvider.CreatePreference(r.Context(), pref)
	if err != nil {
		app.upstreamFailureResponse(w, r, err)
		return
	}

	resp := api.PaymentLinkResponse{
		PreferenceId: session.ID,
		InitPoint:    session.InitPoint,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// PaymentWebhook ingests provider notifications. It always acknowledges with
// 200: a non-2xx answer makes the provider retry, and retrying cannot fix a
// payload we will never act on. The notification body is only a trigger; the
// payment status used for the transition is re-fetched from the provider.
func (app *Application) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req api.WebhookRequest

	// Provider notification bodies carry fields we don't model, so this
	// deliberately skips the strict readJSON helper.
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req)
	if err != nil {
		app.logger.Warn("discarding malformed webhook payload", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if req.Type != domain.ProviderEventPayment || req.Data.Id == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()
	dedupKey := "webhook:payment:" + req.Data.Id

	claimed, err := app.redis.SetNX(ctx, dedupKey, "1", webhookDedupTTL).Result()
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusOK)
		return
	}
	if !claimed {
		app.logger.Info("skipping already processed payment notification", "paymentId", req.Data.Id)
		w.WriteHeader(http.StatusOK)
		return
	}

	settled, err := app.reconcilePayment(r, req.Data.Id)
	if err != nil || !settled {
		// Give the claim back so the provider's next notification gets
		// processed. The provider notifies again once the payment settles,
		// and that later delivery must not be deduplicated away.
		if delErr := app.redis.Del(ctx, dedupKey).Err(); delErr != nil {
			app.logError(r, delErr)
		}
		if err != nil {
			app.logError(r, err)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// reconcilePayment returns whether the payment reached a terminal provider
// status. A not-yet-settled payment reports false so the caller keeps
// accepting later notifications for the same payment id.
func (app *Application) reconcilePayment(r *http.Request, paymentID string) (bool, error) {
	ctx := r.Context()

	providerPayment, err := app.paymentProvider.GetPayment(ctx, paymentID)
	if err != nil {
		return false, err
	}

	var status domain.PaymentStatus

	switch providerPayment.Status {
	case domain.ProviderStatusApproved:
		status = domain.PaymentStatusPaid
	case domain.ProviderStatusRejected:
		status = domain.PaymentStatusRejected
	default:
		// Still pending on the provider side, nothing to reconcile yet.
		app.logger.Info("payment not settled yet", "paymentId", paymentID, "status", providerPayment.Status)
		return false, nil
	}

	updated, err := app.reservationRepo.UpdatePaymentStatus(ctx, providerPayment.ExternalReference, status)
	if err != nil {
		return false, err
	}

	if !updated {
		app.logger.Info("payment notification matched no pending reservation",
			"paymentId", paymentID, "externalReference", providerPayment.ExternalReference)
		return true, nil
	}

	app.logger.Info("reconciled payment", "paymentId", paymentID,
		"externalReference", providerPayment.ExternalReference, "status", status)

	if status == domain.PaymentStatusRejected {
		reservation, err := app.reservationRepo.GetByExternalReference(ctx, providerPayment.ExternalReference)
		if err != nil {
			app.logInconsistency(r, "rejected payment but could not load reservation for seat release",
				"externalReference", providerPayment.ExternalReference, "error", err)
			return true, nil
		}

		app.releaseSeatsOrLog(r, reservation.ShowtimeID, reservation.Seats)
	}

	return true, nil
}
