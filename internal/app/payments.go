package app

import (
	"net"
	"net/http"

	"github.com/metinatakli/payment-orchestrator/api"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

const maxTransactionIdLength = 255

var _ api.ServerInterface = (*Application)(nil)

func (app *Application) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreatePaymentHandlerJSONRequestBody

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	input := toCreatePaymentInput(req)
	input.ClientIP = clientIP(r)

	payment, err := app.payments.CreatePayment(r.Context(), app.contextGetUserId(r), input)
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	headers := http.Header{"Location": []string{"/payments/" + payment.ID.String()}}

	err = app.writeJSON(w, http.StatusCreated, toPaymentResponse(payment), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetPaymentHandler(w http.ResponseWriter, r *http.Request, id api.PaymentId) {
	payment, err := app.payments.GetPayment(r.Context(), id)
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentResponse(payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListPaymentsHandler(w http.ResponseWriter, r *http.Request, params api.ListPaymentsHandlerParams) {
	payments, metadata, err := app.payments.ListPayments(r.Context(), toPagination(params))
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentListResponse(payments, metadata), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ForceSuccessHandler is the operator override for payments a gateway never
// confirmed. The request body is optional.
func (app *Application) ForceSuccessHandler(w http.ResponseWriter, r *http.Request, id api.PaymentId) {
	var req api.ForceSuccessHandlerJSONRequestBody

	if r.ContentLength != 0 {
		err := app.readJSON(w, r, &req)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	var transactionId string
	if req.TransactionId != nil {
		transactionId = *req.TransactionId
	}

	if len(transactionId) > maxTransactionIdLength {
		validationErr := &domain.ValidationError{}
		validationErr.Add("transactionId", "must be at most 255 characters")
		app.failedValidationResponse(w, r, validationErr)
		return
	}

	payment, err := app.payments.ForceSuccess(r.Context(), id, transactionId, app.contextGetOperator(r))
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentResponse(payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
