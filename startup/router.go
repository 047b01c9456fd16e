package startup

import (
	"net/http"

	"github.com/cadupuy/airbnb-backend/casbinAuthorization"
	"github.com/cadupuy/airbnb-backend/handlers"
	"github.com/casbin/casbin"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type routes interface {
	Init(router *mux.Router)
}

// NewRouter registers every route behind trace extraction, bearer
// authentication and the casbin policy. Unmatched requests skip the
// middlewares and get the JSON 404.
func NewRouter(auth handlers.Authenticator, enforcer *casbin.Enforcer, logger *logrus.Logger, all ...routes) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = handlers.NotFound()
	router.MethodNotAllowedHandler = handlers.NotFound()

	router.Use(handlers.ExtractTraceInfoMiddleware)
	router.Use(handlers.AuthMiddleware(auth, logger))
	router.Use(casbinAuthorization.CasbinMiddleware(enforcer, logger))

	for _, r := range all {
		r.Init(router)
	}
	return router
}

// wrap adds the outer layers every response goes through, matched or not.
func wrap(router http.Handler, allowedOrigins []string, logger *logrus.Logger) http.Handler {
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(allowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(logger),
		gorillaHandlers.PrintRecoveryStack(true),
	)

	return MiddlewareContentTypeSet(handlers.LoggingMiddleware(logger)(recovery(cors(router))))
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")
		rw.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		rw.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(rw, h)
	})
}
