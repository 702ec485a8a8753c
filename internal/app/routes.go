package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/payment-orchestrator/api"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)

	api.HandlerWithOptions(app, api.ChiServerOptions{
		BaseRouter:       r,
		Middlewares:      []api.MiddlewareFunc{app.authenticate},
		ErrorHandlerFunc: app.paramErrorResponse,
	})

	// gateway callbacks always answer with the gateway's own acknowledgement
	r.Get("/payments/vnpay/ipn", app.notificationHandler(domain.PaymentMethodVNPay, domain.ChannelWebhook))
	r.Get("/payments/vnpay/return", app.notificationHandler(domain.PaymentMethodVNPay, domain.ChannelReturn))
	r.Post("/payments/momo/ipn", app.notificationHandler(domain.PaymentMethodMoMo, domain.ChannelWebhook))
	r.Get("/payments/momo/return", app.notificationHandler(domain.PaymentMethodMoMo, domain.ChannelReturn))
	r.Post("/payments/vietqr/webhook", app.notificationHandler(domain.PaymentMethodVietQR, domain.ChannelWebhook))
	r.Post("/payments/payos/webhook", app.notificationHandler(domain.PaymentMethodPayOS, domain.ChannelWebhook))

	return r
}
