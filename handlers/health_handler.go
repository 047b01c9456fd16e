package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type HealthHandler struct {
	ping   func(ctx context.Context) error
	logger *logrus.Logger
}

func NewHealthHandler(ping func(ctx context.Context) error, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

func (handler *HealthHandler) Init(router *mux.Router) {
	router.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)
}

func (handler *HealthHandler) Health(writer http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := handler.ping(ctx); err != nil {
		handler.logger.WithError(err).Warn("health check failed")
		writeJSON(writer, http.StatusServiceUnavailable, messageResponse{Message: "unavailable"})
		return
	}
	jsonResponse(messageResponse{Message: "ok"}, writer)
}
