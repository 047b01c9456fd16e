package application

import (
	"context"
	"fmt"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type RoomService struct {
	store    domain.RoomStore
	accounts domain.AccountStore
	images   domain.ImageStore
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewRoomService(store domain.RoomStore, accounts domain.AccountStore, images domain.ImageStore, tracer trace.Tracer, logger *logrus.Logger) *RoomService {
	return &RoomService{
		store:    store,
		accounts: accounts,
		images:   images,
		tracer:   tracer,
		logger:   logger,
	}
}

// Publish creates a room owned by actor and records it on the owner's account.
func (service *RoomService) Publish(ctx context.Context, actor *domain.Account, input domain.RoomInput) (*domain.Room, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.Publish")
	defer span.End()

	if actor == nil {
		return nil, appErrors.Unauthorized()
	}
	if err := checkInput(input); err != nil {
		return nil, err
	}

	room := &domain.Room{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Photos:      []domain.Photo{},
		Location:    input.Location.Pair(),
		User:        actor.ID,
	}
	if err := service.store.Create(ctx, room); err != nil {
		return nil, err
	}
	if err := service.accounts.AppendRoom(ctx, actor.ID, room.ID); err != nil {
		return nil, err
	}

	service.logger.WithFields(logrus.Fields{"room": room.ID.Hex(), "owner": actor.ID.Hex()}).Info("room published")
	return room, nil
}

func (service *RoomService) Search(ctx context.Context, filter domain.RoomFilter) ([]*domain.RoomView, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("rooms.page", filter.Page))

	return service.store.Find(ctx, filter)
}

func (service *RoomService) Get(ctx context.Context, id primitive.ObjectID) (*domain.RoomView, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.Get")
	defer span.End()

	room, err := service.store.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, appErrors.NotFound(appErrors.RoomNotFound)
	}
	return room, nil
}

func (service *RoomService) Update(ctx context.Context, actor *domain.Account, id primitive.ObjectID, patch domain.RoomPatch) (*domain.Room, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.Update")
	defer span.End()

	if _, err := service.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	patch = normalizeRoomPatch(patch)
	if patch.IsEmpty() {
		return nil, appErrors.Missing(appErrors.NothingToModify)
	}
	if err := checkInput(patch); err != nil {
		return nil, err
	}
	return service.store.Update(ctx, id, patch)
}

// Delete removes the room and the owner's reference to it, then its pictures.
// Pictures are only touched once the room is gone.
func (service *RoomService) Delete(ctx context.Context, actor *domain.Account, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "RoomService.Delete")
	defer span.End()

	room, err := service.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := service.store.Delete(ctx, id); err != nil {
		return err
	}
	for _, photo := range room.Photos {
		service.deleteImage(ctx, photo.AssetID)
	}
	if err := service.accounts.RemoveRoom(ctx, room.User, id); err != nil {
		return err
	}

	service.logger.WithField("room", id.Hex()).Info("room deleted")
	return nil
}

func (service *RoomService) UploadPicture(ctx context.Context, actor *domain.Account, id primitive.ObjectID, upload domain.Upload) (*domain.Room, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.UploadPicture")
	defer span.End()

	room, err := service.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(room.Photos) >= domain.MaxPhotosPerRoom {
		return nil, appErrors.LimitExceeded(appErrors.TooManyPictures)
	}

	photo, err := service.images.Upload(ctx, roomFolder(id), upload, "")
	if err != nil {
		return nil, err
	}

	updated, err := service.store.AddPhoto(ctx, id, *photo)
	if err != nil {
		// a concurrent upload took the last slot
		service.deleteImage(ctx, photo.AssetID)
		return nil, err
	}
	return updated, nil
}

// DeletePicture removes the photo from the room. A failure to delete it from
// the image host is logged and does not keep the photo on the room.
func (service *RoomService) DeletePicture(ctx context.Context, actor *domain.Account, id primitive.ObjectID, assetID string) (*domain.Room, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.DeletePicture")
	defer span.End()

	if assetID == "" {
		return nil, appErrors.Missing(appErrors.MissingParameter)
	}
	room, err := service.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if room.FindPhoto(assetID) < 0 {
		return nil, appErrors.NotFound(appErrors.PictureNotFound)
	}

	updated, err := service.store.RemovePhoto(ctx, id, assetID)
	if err != nil {
		return nil, err
	}
	service.deleteImage(ctx, assetID)
	return updated, nil
}

// owned loads room id, which actor must own.
func (service *RoomService) owned(ctx context.Context, actor *domain.Account, id primitive.ObjectID) (*domain.Room, error) {
	if actor == nil {
		return nil, appErrors.Unauthorized()
	}
	room, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, appErrors.NotFound(appErrors.RoomNotFound)
	}
	if room.User != actor.ID {
		return nil, appErrors.Unauthorized()
	}
	return room, nil
}

func (service *RoomService) deleteImage(ctx context.Context, assetID string) {
	if err := service.images.Delete(ctx, assetID); err != nil {
		service.logger.WithError(err).WithField("asset", assetID).Warn("image not deleted from host")
	}
}

func roomFolder(id primitive.ObjectID) string {
	return fmt.Sprintf("%s/%s", domain.RoomsFolderPrefix, id.Hex())
}
