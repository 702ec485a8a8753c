package payment

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

// rejectionMessage is the provider-facing reason for a rejected
// notification. Internal error text never leaves the service.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSignature):
		return "Invalid signature"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "Invalid payload"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "Payment not found"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "Amount mismatch"
	default:
		return "Internal error"
	}
}

// resultStatus is the status shown to the customer on the frontend result page.
func resultStatus(report domain.NotificationReport) string {
	if report.Outcome == domain.NotificationRejected || report.Payment == nil {
		return "error"
	}

	return strings.ToLower(string(report.Payment.Status))
}

// resultRedirect builds the frontend URL a returning customer is sent to.
func resultRedirect(base string, method domain.PaymentMethod, report domain.NotificationReport) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}

	q := u.Query()
	q.Set("method", method.Slug())
	q.Set("status", resultStatus(report))
	if report.Payment != nil {
		q.Set("paymentId", report.Payment.ID.String())
		q.Set("bookingId", report.Payment.BookingID)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// returnAck acknowledges a browser return: a redirect to the frontend when
// one is configured, a small JSON document otherwise.
func returnAck(base string, method domain.PaymentMethod, report domain.NotificationReport) domain.Acknowledgement {
	if base != "" {
		if target := resultRedirect(base, method, report); target != "" {
			return domain.Acknowledgement{StatusCode: http.StatusFound, RedirectURL: target}
		}
	}

	body := map[string]string{"status": resultStatus(report)}
	if report.Payment != nil {
		body["paymentId"] = report.Payment.ID.String()
	}

	return domain.Acknowledgement{StatusCode: http.StatusOK, Body: body}
}
