package store

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type RoomMongoDBStore struct {
	rooms  *mongo.Collection
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewRoomMongoDBStore(db *mongo.Database, tracer trace.Tracer, logger *logrus.Logger) *RoomMongoDBStore {
	return &RoomMongoDBStore{
		rooms:  db.Collection(RoomsCollection),
		tracer: tracer,
		logger: logger,
	}
}

func (store *RoomMongoDBStore) EnsureIndexes(ctx context.Context) error {
	_, err := store.rooms.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	return err
}

func (store *RoomMongoDBStore) Find(ctx context.Context, filter domain.RoomFilter) ([]*domain.RoomView, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.Find")
	defer span.End()
	span.SetAttributes(
		attribute.String("rooms.title", filter.Title),
		attribute.String("rooms.sort", filter.Sort),
		attribute.Int("rooms.page", filter.Page),
	)

	return store.aggregate(ctx, span, roomSearchPipeline(filter))
}

func (store *RoomMongoDBStore) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.RoomView, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.FindByOwner")
	defer span.End()

	return store.aggregate(ctx, span, roomsByOwnerPipeline(ownerID))
}

func (store *RoomMongoDBStore) GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.RoomView, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.GetDetail")
	defer span.End()

	rooms, err := store.aggregate(ctx, span, roomDetailPipeline(id))
	if err != nil || len(rooms) == 0 {
		return nil, err
	}
	return rooms[0], nil
}

func (store *RoomMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Room, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.Get")
	defer span.End()

	var room domain.Room
	if err := store.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		if stdErrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, store.fail(span, "fetching room", err)
	}
	return &room, nil
}

func (store *RoomMongoDBStore) Create(ctx context.Context, room *domain.Room) error {
	ctx, span := store.tracer.Start(ctx, "RoomStore.Create")
	defer span.End()

	room.ID = primitive.NewObjectID()
	if room.Photos == nil {
		room.Photos = []domain.Photo{}
	}
	if _, err := store.rooms.InsertOne(ctx, room); err != nil {
		return store.fail(span, "inserting room", err)
	}
	return nil
}

func (store *RoomMongoDBStore) Update(ctx context.Context, id primitive.ObjectID, patch domain.RoomPatch) (*domain.Room, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.Update")
	defer span.End()

	room, err := store.findOneAndUpdate(ctx, span, bson.M{"_id": id}, roomPatchUpdate(patch))
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, appErrors.NotFound(appErrors.RoomNotFound)
	}
	return room, nil
}

func (store *RoomMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "RoomStore.Delete")
	defer span.End()

	result, err := store.rooms.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return store.fail(span, "deleting room", err)
	}
	if result.DeletedCount == 0 {
		return appErrors.NotFound(appErrors.RoomNotFound)
	}
	return nil
}

func (store *RoomMongoDBStore) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.DeleteByOwner")
	defer span.End()

	result, err := store.rooms.DeleteMany(ctx, bson.M{"user": ownerID})
	if err != nil {
		return 0, store.fail(span, "deleting rooms of owner", err)
	}
	return result.DeletedCount, nil
}

// AddPhoto appends photo only while the room has a free slot, so two
// concurrent uploads cannot push the room past the limit.
func (store *RoomMongoDBStore) AddPhoto(ctx context.Context, id primitive.ObjectID, photo domain.Photo) (*domain.Room, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.AddPhoto")
	defer span.End()

	room, err := store.findOneAndUpdate(ctx, span, roomHasFreePhotoSlot(id), bson.M{"$push": bson.M{"photos": photo}})
	if err != nil || room != nil {
		return room, err
	}
	if err := store.mustExist(ctx, span, id); err != nil {
		return nil, err
	}
	return nil, appErrors.LimitExceeded(appErrors.TooManyPictures)
}

// RemovePhoto removes the first photo with assetID in a single update.
func (store *RoomMongoDBStore) RemovePhoto(ctx context.Context, id primitive.ObjectID, assetID string) (*domain.Room, error) {
	ctx, span := store.tracer.Start(ctx, "RoomStore.RemovePhoto")
	defer span.End()

	filter := bson.M{"_id": id, "photos.picture_id": assetID}
	room, err := store.findOneAndUpdate(ctx, span, filter, removeFirstPhoto(assetID))
	if err != nil || room != nil {
		return room, err
	}
	if err := store.mustExist(ctx, span, id); err != nil {
		return nil, err
	}
	return nil, appErrors.NotFound(appErrors.PictureNotFound)
}

func (store *RoomMongoDBStore) mustExist(ctx context.Context, span trace.Span, id primitive.ObjectID) error {
	count, err := store.rooms.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return store.fail(span, "counting rooms", err)
	}
	if count == 0 {
		return appErrors.NotFound(appErrors.RoomNotFound)
	}
	return nil
}

func (store *RoomMongoDBStore) findOneAndUpdate(ctx context.Context, span trace.Span, filter, update interface{}) (*domain.Room, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var room domain.Room
	if err := store.rooms.FindOneAndUpdate(ctx, filter, update, opts).Decode(&room); err != nil {
		if stdErrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, store.fail(span, "updating room", err)
	}
	return &room, nil
}

func (store *RoomMongoDBStore) aggregate(ctx context.Context, span trace.Span, pipeline mongo.Pipeline) ([]*domain.RoomView, error) {
	cursor, err := store.rooms.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, store.fail(span, "aggregating rooms", err)
	}
	defer cursor.Close(ctx)

	rooms := []*domain.RoomView{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, store.fail(span, "decoding rooms", err)
	}
	return rooms, nil
}

func (store *RoomMongoDBStore) fail(span trace.Span, op string, err error) error {
	span.SetStatus(codes.Error, err.Error())
	store.logger.WithError(err).Errorf("room store: %s", op)
	return appErrors.Internal(fmt.Errorf("%s: %w", op, err))
}
