package casbinAuthorization

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cadupuy/airbnb-backend/domain"
	"github.com/cadupuy/airbnb-backend/handlers"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasbinMiddleware(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e, err := NewEnforcer("../rbac_model.conf", "../policy.csv", logger)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := CasbinMiddleware(e, logger)(ok)

	tcases := []struct {
		name   string
		method string
		path   string
		member bool
		status int
	}{
		{name: "anonymous signup", method: http.MethodPost, path: "/user/signup", status: http.StatusOK},
		{name: "anonymous search", method: http.MethodGet, path: "/rooms", status: http.StatusOK},
		{name: "anonymous room detail", method: http.MethodGet, path: "/rooms/abc", status: http.StatusOK},
		{name: "anonymous profile", method: http.MethodGet, path: "/users/abc", status: http.StatusOK},
		{name: "anonymous publish", method: http.MethodPost, path: "/room/publish", status: http.StatusUnauthorized},
		{name: "anonymous account delete", method: http.MethodDelete, path: "/user/delete/abc", status: http.StatusUnauthorized},
		{name: "member publish", method: http.MethodPost, path: "/room/publish", member: true, status: http.StatusOK},
		{name: "member update", method: http.MethodPut, path: "/user/update/abc", member: true, status: http.StatusOK},
		{name: "member inherits search", method: http.MethodGet, path: "/rooms", member: true, status: http.StatusOK},
		{name: "member cannot post to users", method: http.MethodPost, path: "/users/abc", member: true, status: http.StatusUnauthorized},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.member {
				req = req.WithContext(handlers.WithAccount(req.Context(), &domain.Account{}))
			}
			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusUnauthorized {
				assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}
