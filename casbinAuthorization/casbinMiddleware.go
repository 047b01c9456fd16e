package casbinAuthorization

import (
	"net/http"

	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/cadupuy/airbnb-backend/handlers"
	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"
)

const (
	RoleMember          = "Member"
	RoleUnauthenticated = "Unauthenticated"
)

func NewEnforcer(modelPath, policyPath string, logger *logrus.Logger) (*casbin.Enforcer, error) {
	e, err := casbin.NewEnforcerSafe(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	e.EnableLog(logger.IsLevelEnabled(logrus.DebugLevel))
	logger.Info("successful init of enforcer")
	return e, nil
}

func extractUserType(r *http.Request) string {
	if handlers.AccountFromContext(r.Context()) != nil {
		return RoleMember
	}
	return RoleUnauthenticated
}

// CasbinMiddleware must run after handlers.AuthMiddleware so the role can be
// read from the request context.
func CasbinMiddleware(e *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole := extractUserType(r)

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				logger.WithError(err).Error("Error enforcing authorization policy")
				handlers.WriteError(w, appErrors.Unauthorized(), logger)
				return
			}

			if !res {
				logger.WithFields(logrus.Fields{
					"role":   userRole,
					"path":   r.URL.Path,
					"method": r.Method,
				}).Warn("Unauthorized access attempt")
				handlers.WriteError(w, appErrors.Unauthorized(), logger)
				return
			}
			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
