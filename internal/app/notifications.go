package app

import (
	"context"
	"net/http"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

// notificationHandler feeds a gateway callback to the orchestrator. A body
// that cannot be read is passed on empty so the adapter rejects it in the
// gateway's own format.
func (app *Application) notificationHandler(method domain.PaymentMethod, channel domain.NotificationChannel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := app.contextGetLogger(r)

		payload := domain.NotificationPayload{
			Channel: channel,
			Query:   r.URL.Query(),
		}

		if r.Method == http.MethodPost {
			body, err := app.readBody(w, r)
			if err != nil {
				logger.Warn("failed to read notification body", "method", method, "error", err)
			}
			payload.Body = body
		}

		// processing must finish even if the gateway hangs up
		ctx := context.WithoutCancel(r.Context())

		_, ack := app.payments.HandleNotification(ctx, method, payload)

		app.writeAcknowledgement(w, r, ack)
	}
}

func (app *Application) writeAcknowledgement(w http.ResponseWriter, r *http.Request, ack domain.Acknowledgement) {
	status := ack.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	if ack.RedirectURL != "" {
		http.Redirect(w, r, ack.RedirectURL, status)
		return
	}

	if ack.Body == nil {
		w.WriteHeader(status)
		return
	}

	err := app.writeJSON(w, status, ack.Body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
