package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomStore persists rooms. Get and GetDetail return (nil, nil) for an unknown id;
// mutations report an unknown room as a NotFound error.
type RoomStore interface {
	Find(ctx context.Context, filter RoomFilter) ([]*RoomView, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*RoomView, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Room, error)
	GetDetail(ctx context.Context, id primitive.ObjectID) (*RoomView, error)
	Create(ctx context.Context, room *Room) error
	Update(ctx context.Context, id primitive.ObjectID, patch RoomPatch) (*Room, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	AddPhoto(ctx context.Context, id primitive.ObjectID, photo Photo) (*Room, error)
	RemovePhoto(ctx context.Context, id primitive.ObjectID, assetID string) (*Room, error)
}
