package startup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cadupuy/airbnb-backend/casbinAuthorization"
	"github.com/cadupuy/airbnb-backend/domain"
	"github.com/cadupuy/airbnb-backend/handlers"
	application "github.com/cadupuy/airbnb-backend/service"
	"github.com/cadupuy/airbnb-backend/startup/config"
	"github.com/cadupuy/airbnb-backend/storage"
	"github.com/cadupuy/airbnb-backend/store"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "airbnb_backend"

type Server struct {
	config *config.Config
	logger *logrus.Logger
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
		logger: logrus.New(),
	}
}

func (server *Server) Start() {
	server.initLogger()

	ctx := context.Background()
	tracer, shutdownTracer := server.initTracer()
	defer shutdownTracer(ctx)

	mongoClient := server.initMongoClient(ctx)
	defer func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			server.logger.WithError(err).Error("disconnecting from MongoDB")
		}
	}()
	db := mongoClient.Database(server.config.MongoDatabase)

	accountStore := server.initAccountStore(ctx, db, tracer)
	roomStore := server.initRoomStore(ctx, db, tracer)
	imageStore := server.initImageStorage(ctx, tracer)
	notifier := server.initNotifier()

	accountService := application.NewAccountService(accountStore, roomStore, imageStore, notifier, tracer, server.logger)
	roomService := application.NewRoomService(roomStore, accountStore, imageStore, tracer, server.logger)

	enforcer, err := casbinAuthorization.NewEnforcer(server.config.CasbinModelPath, server.config.CasbinPolicy, server.logger)
	if err != nil {
		server.logger.Fatalf("loading casbin policy: %v", err)
	}

	router := NewRouter(accountService, enforcer, server.logger,
		handlers.NewAccountHandler(accountService, tracer, server.logger),
		handlers.NewRoomHandler(roomService, tracer, server.logger),
		handlers.NewHealthHandler(func(ctx context.Context) error { return store.Ping(ctx, mongoClient) }, server.logger),
	)

	server.start(wrap(router, server.config.AllowedOrigins, server.logger))
}

func (server *Server) initLogger() {
	server.logger.SetFormatter(&logrus.JSONFormatter{})
	if server.config.LogFilePath == "" {
		server.logger.SetOutput(os.Stdout)
		return
	}

	writer, err := rotatelogs.New(
		server.config.LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		server.logger.Fatalf("Failed to create rotatelogs writer: %v", err)
	}
	server.logger.SetOutput(io.MultiWriter(os.Stdout, writer))
}

func (server *Server) initTracer() (trace.Tracer, func(context.Context)) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if server.config.JaegerAddress == "" {
		server.logger.Info("JAEGER_ADDRESS not set, tracing disabled")
		return trace.NewNoopTracerProvider().Tracer(serviceName), func(context.Context) {}
	}

	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		server.logger.Fatalf("Failed to Initialize Exporter: %v", err)
	}
	tp := newTraceProvider(exp)
	otel.SetTracerProvider(tp)

	return tp.Tracer(serviceName), func(ctx context.Context) { _ = tp.Shutdown(ctx) }
}

func (server *Server) initMongoClient(ctx context.Context) *mongo.Client {
	client, err := store.GetClient(ctx, server.config.MongoURI)
	if err != nil {
		server.logger.Fatal(err)
	}
	if err := store.Ping(ctx, client); err != nil {
		server.logger.WithError(err).Warn("MongoDB not reachable yet")
	}
	return client
}

func (server *Server) initAccountStore(ctx context.Context, db *mongo.Database, tracer trace.Tracer) domain.AccountStore {
	accountStore := store.NewAccountMongoDBStore(db, tracer, server.logger)
	if err := accountStore.EnsureIndexes(ctx); err != nil {
		server.logger.WithError(err).Error("creating account indexes")
	}
	return accountStore
}

func (server *Server) initRoomStore(ctx context.Context, db *mongo.Database, tracer trace.Tracer) domain.RoomStore {
	roomStore := store.NewRoomMongoDBStore(db, tracer, server.logger)
	if err := roomStore.EnsureIndexes(ctx); err != nil {
		server.logger.WithError(err).Error("creating room indexes")
	}
	return roomStore
}

func (server *Server) initImageStorage(ctx context.Context, tracer trace.Tracer) domain.ImageStore {
	client, err := storage.NewS3Client(ctx, storage.S3Options{
		Bucket:    server.config.S3Bucket,
		Region:    server.config.S3Region,
		Endpoint:  server.config.S3Endpoint,
		AccessKey: server.config.S3AccessKey,
		SecretKey: server.config.S3SecretKey,
	})
	if err != nil {
		server.logger.Fatalf("creating S3 client: %v", err)
	}

	return storage.NewImageStorage(
		client,
		server.config.S3Bucket,
		server.config.ImagePublicURL(),
		storage.CircuitBreaker("imageStorage", server.logger),
		tracer,
		server.logger,
	)
}

func (server *Server) initNotifier() domain.Notifier {
	if !server.config.MailEnabled() {
		server.logger.Info("SMTP not configured, welcome mails disabled")
		return application.NopNotifier{}
	}
	return application.NewMailNotifier(
		server.config.SMTPHost,
		server.config.SMTPPort,
		server.config.SMTPEmail,
		server.config.SMTPPassword,
		server.logger,
	)
}

func (server *Server) start(handler http.Handler) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", server.config.Port),
		Handler:      handler,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	wait := time.Second * 15
	go func() {
		server.logger.Infof("Server listening on port %s", server.config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.logger.Fatal(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		server.logger.Fatalf("Error Shutting Down Server %s", err)
	}
	server.logger.Info("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
