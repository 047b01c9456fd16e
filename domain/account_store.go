package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountStore persists accounts. Lookups return (nil, nil) when nothing matches.
type AccountStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByToken(ctx context.Context, token string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, id primitive.ObjectID, patch AccountPatch) (*Account, error)
	SetPhoto(ctx context.Context, id primitive.ObjectID, photo *Photo) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendRoom(ctx context.Context, id primitive.ObjectID, roomID primitive.ObjectID) error
	RemoveRoom(ctx context.Context, id primitive.ObjectID, roomID primitive.ObjectID) error
}
