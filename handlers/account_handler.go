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

type AccountHandler struct {
	service *application.AccountService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewAccountHandler(service *application.AccountService, tracer trace.Tracer, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *AccountHandler) Init(router *mux.Router) {
	router.HandleFunc("/user/signup", handler.Signup).Methods(http.MethodPost)
	router.HandleFunc("/user/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}", handler.GetProfile).Methods(http.MethodGet)
	router.HandleFunc("/user/rooms/{id}", handler.GetRooms).Methods(http.MethodGet)
	router.HandleFunc("/user/upload_picture/{id}", handler.UploadPicture).Methods(http.MethodPut)
	router.HandleFunc("/user/delete_picture/{id}", handler.DeletePicture).Methods(http.MethodPut)
	router.HandleFunc("/user/update/{id}", handler.Update).Methods(http.MethodPut)
	router.HandleFunc("/user/delete/{id}", handler.Delete).Methods(http.MethodDelete)
}

func (handler *AccountHandler) Signup(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.Signup")
	defer span.End()

	var input domain.SignupInput
	if err := readBody(req, &input); err != nil {
		handler.fail(writer, span, err)
		return
	}

	account, err := handler.service.Signup(ctx, input)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(account, writer)
}

func (handler *AccountHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.Login")
	defer span.End()

	var input domain.LoginInput
	if err := readBody(req, &input); err != nil {
		handler.fail(writer, span, err)
		return
	}

	account, err := handler.service.Login(ctx, input)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(account, writer)
}

func (handler *AccountHandler) GetProfile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.GetProfile")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}

	profile, err := handler.service.GetProfile(ctx, id)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(profile, writer)
}

func (handler *AccountHandler) GetRooms(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.GetRooms")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}

	rooms, err := handler.service.GetRooms(ctx, id)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(rooms, writer)
}

func (handler *AccountHandler) UploadPicture(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.UploadPicture")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
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

	profile, err := handler.service.UploadPicture(ctx, AccountFromContext(ctx), id, upload)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(profile, writer)
}

func (handler *AccountHandler) DeletePicture(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.DeletePicture")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}

	profile, err := handler.service.DeletePicture(ctx, AccountFromContext(ctx), id)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(profile, writer)
}

func (handler *AccountHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.Update")
	defer span.End()

	id, err := pathID(req, appErrors.MissingParameter)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	var patch domain.AccountPatch
	if err := readBody(req, &patch); err != nil {
		handler.fail(writer, span, err)
		return
	}

	profile, err := handler.service.Update(ctx, AccountFromContext(ctx), id, patch)
	if err != nil {
		handler.fail(writer, span, err)
		return
	}
	jsonResponse(profile, writer)
}

func (handler *AccountHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccountHandler.Delete")
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
	jsonResponse(messageResponse{Message: "User deleted"}, writer)
}

func (handler *AccountHandler) fail(writer http.ResponseWriter, span trace.Span, err error) {
	span.SetStatus(codes.Error, err.Error())
	WriteError(writer, err, handler.logger)
}
