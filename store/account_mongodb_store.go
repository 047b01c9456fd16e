package store

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	UsersCollection = "users"
	RoomsCollection = "rooms"
)

type AccountMongoDBStore struct {
	users  *mongo.Collection
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewAccountMongoDBStore(db *mongo.Database, tracer trace.Tracer, logger *logrus.Logger) *AccountMongoDBStore {
	return &AccountMongoDBStore{
		users:  db.Collection(UsersCollection),
		tracer: tracer,
		logger: logger,
	}
}

func (store *AccountMongoDBStore) EnsureIndexes(ctx context.Context) error {
	_, err := store.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "account.username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}},
	})
	return err
}

func (store *AccountMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.Get")
	defer span.End()

	return store.filterOne(ctx, span, bson.M{"_id": id})
}

func (store *AccountMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.GetByEmail")
	defer span.End()

	return store.filterOne(ctx, span, bson.M{"email": email})
}

func (store *AccountMongoDBStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.GetByUsername")
	defer span.End()

	return store.filterOne(ctx, span, bson.M{"account.username": username})
}

func (store *AccountMongoDBStore) GetByToken(ctx context.Context, token string) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.GetByToken")
	defer span.End()

	return store.filterOne(ctx, span, bson.M{"token": token})
}

func (store *AccountMongoDBStore) Create(ctx context.Context, account *domain.Account) error {
	ctx, span := store.tracer.Start(ctx, "AccountStore.Create")
	defer span.End()

	account.ID = primitive.NewObjectID()
	if account.Rooms == nil {
		account.Rooms = []primitive.ObjectID{}
	}
	if _, err := store.users.InsertOne(ctx, account); err != nil {
		return store.fail(span, "inserting account", err)
	}
	return nil
}

func (store *AccountMongoDBStore) Update(ctx context.Context, id primitive.ObjectID, patch domain.AccountPatch) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.Update")
	defer span.End()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result := store.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, accountPatchUpdate(patch), opts)

	var account domain.Account
	if err := result.Decode(&account); err != nil {
		if stdErrors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFound(appErrors.UserNotFound)
		}
		return nil, store.fail(span, "updating account", err)
	}
	return &account, nil
}

func (store *AccountMongoDBStore) SetPhoto(ctx context.Context, id primitive.ObjectID, photo *domain.Photo) error {
	ctx, span := store.tracer.Start(ctx, "AccountStore.SetPhoto")
	defer span.End()

	update := bson.M{"$unset": bson.M{"account.photo": ""}}
	if photo != nil {
		update = bson.M{"$set": bson.M{"account.photo": photo}}
	}
	return store.updateOne(ctx, span, id, update)
}

func (store *AccountMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "AccountStore.Delete")
	defer span.End()

	result, err := store.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return store.fail(span, "deleting account", err)
	}
	if result.DeletedCount == 0 {
		return appErrors.NotFound(appErrors.UserNotFound)
	}
	return nil
}

func (store *AccountMongoDBStore) AppendRoom(ctx context.Context, id primitive.ObjectID, roomID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "AccountStore.AppendRoom")
	defer span.End()

	return store.updateOne(ctx, span, id, bson.M{"$push": bson.M{"rooms": roomID}})
}

func (store *AccountMongoDBStore) RemoveRoom(ctx context.Context, id primitive.ObjectID, roomID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "AccountStore.RemoveRoom")
	defer span.End()

	return store.updateOne(ctx, span, id, bson.M{"$pull": bson.M{"rooms": roomID}})
}

func (store *AccountMongoDBStore) updateOne(ctx context.Context, span trace.Span, id primitive.ObjectID, update bson.M) error {
	result, err := store.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return store.fail(span, "updating account", err)
	}
	if result.MatchedCount == 0 {
		return appErrors.NotFound(appErrors.UserNotFound)
	}
	return nil
}

func (store *AccountMongoDBStore) filterOne(ctx context.Context, span trace.Span, filter interface{}) (*domain.Account, error) {
	var account domain.Account
	if err := store.users.FindOne(ctx, filter).Decode(&account); err != nil {
		if stdErrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, store.fail(span, "fetching account", err)
	}
	return &account, nil
}

// fail records err on the span and converts it to an application error.
// Unique index violations surface as AlreadyExists.
func (store *AccountMongoDBStore) fail(span trace.Span, op string, err error) error {
	span.SetStatus(codes.Error, err.Error())
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), "email") {
			return appErrors.AlreadyExists(appErrors.EmailAlreadyExist)
		}
		return appErrors.AlreadyExists(appErrors.UsernameAlreadyExist)
	}
	store.logger.WithError(err).Errorf("account store: %s", op)
	return appErrors.Internal(fmt.Errorf("%s: %w", op, err))
}
