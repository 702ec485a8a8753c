package app

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const (
	contextKeyUserId   = contextKey("userID")
	contextKeyOperator = contextKey("operator")
	contextKeyLogger   = contextKey("logger")
)

func (c contextKey) String() string {
	return string(c)
}

func (app *Application) contextSetUserId(r *http.Request, userId string) *http.Request {
	ctx := context.WithValue(r.Context(), contextKeyUserId, userId)
	return r.WithContext(ctx)
}

func (app *Application) contextGetUserId(r *http.Request) string {
	userId, ok := r.Context().Value(contextKeyUserId).(string)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

func (app *Application) contextSetOperator(r *http.Request, operator string) *http.Request {
	ctx := context.WithValue(r.Context(), contextKeyOperator, operator)
	return r.WithContext(ctx)
}

func (app *Application) contextGetOperator(r *http.Request) string {
	operator, ok := r.Context().Value(contextKeyOperator).(string)
	if !ok {
		panic("missing operator from context")
	}

	return operator
}

// contextGetLogger returns the request scoped logger, falling back to the
// application logger outside the requestLogger middleware.
func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(contextKeyLogger).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}
