package handlers

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/sirupsen/logrus"
)

type messageResponse struct {
	Message string `json:"message"`
}

func jsonResponse(object interface{}, w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, object)
}

func writeJSON(w http.ResponseWriter, status int, object interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(object); err != nil {
		logrus.WithError(err).Error("encoding response")
	}
}

func statusOf(kind appErrors.Kind) int {
	switch kind {
	case appErrors.KindUnauthorized:
		return http.StatusUnauthorized
	case appErrors.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// WriteError answers with the status of err's kind and its public message.
func WriteError(w http.ResponseWriter, err error, logger *logrus.Logger) {
	kind := appErrors.KindOf(err)
	if kind == appErrors.KindInternal {
		logger.WithError(err).Error("request failed")
	}
	writeJSON(w, statusOf(kind), messageResponse{Message: appErrors.MessageOf(err)})
}

// NotFound answers every unknown route and every method a route does not serve.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: appErrors.RouteNotFound})
	})
}
