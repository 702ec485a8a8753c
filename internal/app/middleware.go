package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/payment-orchestrator/api"
)

const (
	headerUserId        = "X-User-ID"
	headerOperatorToken = "X-Operator-Token"
	headerOperatorName  = "X-Operator"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With("requestId", middleware.GetReqID(r.Context()))

		ctx := context.WithValue(r.Context(), contextKeyLogger, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate enforces the security requirement the generated router attaches
// to each operation's context.
func (app *Application) authenticate(next http.Handler) http.Handler {
	user := app.requireUser(next)
	operator := app.requireOperator(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Context().Value(api.OperatorTokenScopes) != nil:
			operator.ServeHTTP(w, r)
		case r.Context().Value(api.UserIdScopes) != nil:
			user.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// requireUser trusts the user id the API gateway puts in X-User-ID.
func (app *Application) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId := strings.TrimSpace(r.Header.Get(headerUserId))
		if userId == "" {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, app.contextSetUserId(r, userId))
	})
}

// requireOperator guards operator actions. With no operator token configured
// every operator request is refused.
func (app *Application) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(headerOperatorToken)

		if app.config.OperatorToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(app.config.OperatorToken)) != 1 {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		operator := strings.TrimSpace(r.Header.Get(headerOperatorName))
		if operator == "" {
			operator = "operator"
		}

		next.ServeHTTP(w, app.contextSetOperator(r, operator))
	})
}
