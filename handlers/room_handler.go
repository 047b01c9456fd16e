package handlers

import (
	"net/http"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	application "github.com/cadupuy/airbnb-backend/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type RoomHandler struct {
	service *application.RoomService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewRoomHandler(service *application.RoomService, tracer trace.Tracer, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *RoomHandler) Init(router *mux.Router) {
	router.HandleFunc("/room/publish", handler.Publish).Methods(http.MethodPost)
	router.HandleFunc("/rooms", handler.Search).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{id}", handler.Get).Methods(http.MethodGet)
	router.HandleFunc("/room/update/{id}", handler.Update).Methods(http.MethodPut)
	router.HandleFunc("/room/delete/{id}", handler.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/room/upload_picture/{id}", handler.UploadPicture).Methods(http.MethodPut)
	router.HandleFunc("/room/delete_picture/{id}", handler.DeletePicture).Methods(http.MethodPut)
}

type pictureRequest struct {
	PictureID string `mapstructure:"picture_id"`
}

func (handler *RoomHandler) Publish(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.Publish")
	defer span.End()

	var input domain.RoomInput
	if err := readBody(req, &input); err != nil {
		handler.fail(writer, span, err)
		return
	}

	room, err := handler.service.Publish(ctx, AccountFromContext(ctx), input)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(room, writer)
}

func (handler *RoomHandler) Search(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.Search")
	defer span.End()

	filter, err := roomFilter(req.URL.Query())
	if err != nil {
		handler.fail(writer, span, err)
		return
	}

	rooms, err := handler.service.Search(ctx, filter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(rooms, writer)
}

func (handler *RoomHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.Get")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(room, writer)
}

func (handler *RoomHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.Update")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	var patch domain.RoomPatch
	if err := readBody(req, &patch); err != nil {
		handler.fail(writer, span, err)
		return
	}

	room, err := handler.service.Update(ctx, AccountFromContext(ctx), id, patch)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(room, writer)
}

func (handler *RoomHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.Delete")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}

	if err := handler.service.Delete(ctx, AccountFromContext(ctx), id); err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(messageResponse{Message: "Room deleted"}, writer)
}

func (handler *RoomHandler) UploadPicture(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.UploadPicture")
	defer span.End()

	id, err := pathID(req, appErrors.MissingRoomID)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	upload, closeUpload, err := readUpload(req)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	defer closeUpload()

	room, err := handler.service.UploadPicture(ctx, AccountFromContext(ctx), id, upload)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(room, writer)
}

func (handler *RoomHandler) DeletePicture(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.DeletePicture")
	defer span.End()

	id, err := pathID(req, appErrors.MissingRoomID)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	var body pictureRequest
	if err := readBody(req, &body); err != nil {
		handler.fail(writer, span, err)
		return
	}

	if _, err := handler.service.DeletePicture(ctx, AccountFromContext(ctx), id, body.PictureID); err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(messageResponse{Message: "Picture deleted"}, writer)
}

func (handler *RoomHandler) fail(writer http.ResponseWriter, span trace.Span, err error) {
	span.SetStatus(codes.Error, err.Error())
	WriteError(writer, err, handler.logger)
}
