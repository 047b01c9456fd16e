package storage

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ObjectAPI is the part of the S3 client the image storage needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for AWS or, when Endpoint is set, for an
// S3 compatible server such as MinIO.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type ImageStorage struct {
	api       ObjectAPI
	bucket    string
	publicURL string
	cb        *gobreaker.CircuitBreaker
	tracer    trace.Tracer
	logger    *logrus.Logger
}

func NewImageStorage(api ObjectAPI, bucket, publicURL string, cb *gobreaker.CircuitBreaker, tracer trace.Tracer, logger *logrus.Logger) *ImageStorage {
	return &ImageStorage{
		api:       api,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		cb:        cb,
		tracer:    tracer,
		logger:    logger,
	}
}

func (storage *ImageStorage) Upload(ctx context.Context, folder string, image domain.Upload, existingAssetID string) (*domain.Photo, error) {
	ctx, span := storage.tracer.Start(ctx, "ImageStorage.Upload")
	defer span.End()

	key := existingAssetID
	if key == "" {
		key = path.Join(folder, uuid.New().String())
	}
	span.SetAttributes(attribute.String("image.key", key))

	input := &s3.PutObjectInput{
		Bucket: aws.String(storage.bucket),
		Key:    aws.String(key),
		Body:   image.Content,
	}
	if image.Size > 0 {
		input.ContentLength = aws.Int64(image.Size)
	}
	if image.ContentType != "" {
		input.ContentType = aws.String(image.ContentType)
	}

	_, err := storage.cb.Execute(func() (interface{}, error) {
		return storage.api.PutObject(ctx, input)
	})
	if err != nil {
		return nil, storage.fail(span, "uploading "+key, err)
	}

	storage.logger.WithFields(logrus.Fields{"key": key, "size": image.Size}).Info("image uploaded")
	return &domain.Photo{URL: storage.URL(key), AssetID: key}, nil
}

func (storage *ImageStorage) Delete(ctx context.Context, assetID string) error {
	ctx, span := storage.tracer.Start(ctx, "ImageStorage.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("image.key", assetID))

	_, err := storage.cb.Execute(func() (interface{}, error) {
		return storage.api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(storage.bucket),
			Key:    aws.String(assetID),
		})
	})
	if err != nil {
		return storage.fail(span, "deleting "+assetID, err)
	}
	return nil
}

// URL is the public address of the object stored under key.
func (storage *ImageStorage) URL(key string) string {
	return storage.publicURL + "/" + key
}

func (storage *ImageStorage) fail(span trace.Span, op string, err error) error {
	span.SetStatus(codes.Error, err.Error())
	storage.logger.WithError(err).Errorf("image storage: %s", op)

	message := appErrors.InternalError
	if stdErrors.Is(err, gobreaker.ErrOpenState) || stdErrors.Is(err, gobreaker.ErrTooManyRequests) {
		message = appErrors.ImageStoreUnavailable
	}
	return &appErrors.Error{Kind: appErrors.KindInternal, Message: message, Err: fmt.Errorf("%s: %w", op, err)}
}
