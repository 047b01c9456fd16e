package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type accountKey struct{}

// Authenticator resolves a bearer token to the account it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}

func WithAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFromContext returns the authenticated account, or nil for an
// anonymous request.
func AccountFromContext(ctx context.Context) *domain.Account {
	account, _ := ctx.Value(accountKey{}).(*domain.Account)
	return account
}

// AuthMiddleware attaches the account owning the bearer token to the request.
// A missing, malformed or unknown token leaves the request anonymous; routes
// that need an account are rejected later by the access policy.
func AuthMiddleware(auth Authenticator, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				logger.WithField("path", r.URL.Path).Warn("malformed authorization header")
				next.ServeHTTP(w, r)
				return
			}

			account, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if appErrors.KindOf(err) != appErrors.KindUnauthorized {
					WriteError(w, err, logger)
					return
				}
				logger.WithField("path", r.URL.Path).Warn("unknown bearer token")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs one entry per request once the response is written.
func LoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return gorillaHandlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, params gorillaHandlers.LogFormatterParams) {
			entry := logger.WithFields(logrus.Fields{
				"method":   params.Request.Method,
				"path":     params.URL.Path,
				"status":   params.StatusCode,
				"size":     params.Size,
				"duration": time.Since(params.TimeStamp).String(),
			})
			if params.StatusCode >= http.StatusInternalServerError {
				entry.Error("request")
				return
			}
			entry.Info("request")
		})
	}
}
