package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/payment-orchestrator/api"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "The " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	message := "You must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *Application) paymentConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "A payment with the same reference already exists, please retry"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "Unable to update the payment due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) paymentFinalizedResponse(w http.ResponseWriter, r *http.Request) {
	message := "The payment has already been finalized and can no longer change"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) upstreamErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The payment provider could not process the request"
	app.errorResponse(w, r, http.StatusBadGateway, message)
}

func (app *Application) providerUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The selected payment method is currently unavailable"
	app.errorResponse(w, r, http.StatusServiceUnavailable, message)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := api.ValidationErrorResponse{
		Message:   "One or more fields have invalid values",
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		for _, field := range validationErr.Fields {
			resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
				Field: field.Field,
				Issue: field.Issue,
			})
		}
	} else {
		resp.ValidationErrors = []api.ValidationError{{Issue: err.Error()}}
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// paramErrorResponse answers requests whose path or query parameters could
// not be bound. A malformed payment id is reported as a missing payment.
func (app *Application) paramErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *api.InvalidParamFormatError
	if !errors.As(err, &paramErr) {
		app.badRequestResponse(w, r, err)
		return
	}

	if paramErr.ParamName == "id" {
		app.notFoundResponse(w, r)
		return
	}

	validationErr := &domain.ValidationError{}
	validationErr.Add(paramErr.ParamName, "must be an integer value")
	app.failedValidationResponse(w, r, validationErr)
}

// paymentErrorResponse maps an orchestrator error onto its HTTP response.
func (app *Application) paymentErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		app.failedValidationResponse(w, r, err)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrConflict):
		app.paymentConflictResponse(w, r)
	case errors.Is(err, domain.ErrEditConflict):
		app.editConflictResponse(w, r)
	case errors.Is(err, domain.ErrPaymentFinalized):
		app.paymentFinalizedResponse(w, r)
	case errors.Is(err, domain.ErrUpstream):
		app.upstreamErrorResponse(w, r, err)
	case errors.Is(err, domain.ErrConfig):
		app.providerUnavailableResponse(w, r, err)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
