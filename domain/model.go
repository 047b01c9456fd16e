package domain

import (
	"io"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoomsPageSize     = 5
	MaxPhotosPerRoom  = 5
	SortPriceAsc      = "price-asc"
	RoomsFolderPrefix = "airbnb/rooms"
	UsersFolderPrefix = "airbnb/users"
)

type Photo struct {
	URL     string `bson:"url" json:"url"`
	AssetID string `bson:"picture_id" json:"picture_id"`
}

type AccountInfo struct {
	Username    string `bson:"username" json:"username"`
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Photo       *Photo `bson:"photo,omitempty" json:"photo,omitempty"`
}

// Account is the stored user document. Hash, Salt and Token never leave the
// service through the public views below.
type Account struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email   string               `bson:"email" json:"email"`
	Account AccountInfo          `bson:"account" json:"account"`
	Token   string               `bson:"token" json:"-"`
	Hash    string               `bson:"hash" json:"-"`
	Salt    string               `bson:"salt" json:"-"`
	Rooms   []primitive.ObjectID `bson:"rooms" json:"rooms"`
}

// AuthView is returned by signup and login.
type AuthView struct {
	ID      primitive.ObjectID `json:"_id"`
	Email   string             `json:"email"`
	Account AccountInfo        `json:"account"`
	Token   string             `json:"token"`
}

// ProfileView is the public profile with the owned room ids.
type ProfileView struct {
	ID      primitive.ObjectID   `json:"_id"`
	Email   string               `json:"email,omitempty"`
	Account AccountInfo          `json:"account"`
	Rooms   []primitive.ObjectID `json:"rooms"`
}

// OwnerSummary replaces a room's owner id in every room response.
type OwnerSummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Account AccountInfo        `bson:"account" json:"account"`
}

type Room struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	RatingValue *float64           `bson:"ratingValue,omitempty" json:"ratingValue,omitempty"`
	Reviews     *int               `bson:"reviews,omitempty" json:"reviews,omitempty"`
	Photos      []Photo            `bson:"photos" json:"photos"`
	Location    []float64          `bson:"location" json:"location"`
	User        primitive.ObjectID `bson:"user" json:"user"`
}

// FindPhoto returns the index of the first photo with assetID, or -1.
func (r *Room) FindPhoto(assetID string) int {
	for i, p := range r.Photos {
		if p.AssetID == assetID {
			return i
		}
	}
	return -1
}

// RoomView is a room whose owner has been replaced by its public summary.
type RoomView struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	RatingValue *float64           `bson:"ratingValue,omitempty" json:"ratingValue,omitempty"`
	Reviews     *int               `bson:"reviews,omitempty" json:"reviews,omitempty"`
	Photos      []Photo            `bson:"photos" json:"photos"`
	Location    []float64          `bson:"location" json:"location"`
	User        *OwnerSummary      `bson:"user" json:"user"`
}

func NewRoomView(room *Room, owner *Account) *RoomView {
	view := &RoomView{
		ID:          room.ID,
		Title:       room.Title,
		Description: room.Description,
		Price:       room.Price,
		RatingValue: room.RatingValue,
		Reviews:     room.Reviews,
		Photos:      room.Photos,
		Location:    room.Location,
	}
	if owner != nil {
		view.User = &OwnerSummary{ID: owner.ID, Account: owner.Account}
	}
	return view
}

// Location is a client-supplied coordinate. Both members are pointers so a
// partial location fails the required check instead of defaulting to 0.
type Location struct {
	Lat *float64 `mapstructure:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `mapstructure:"lng" validate:"required,gte=-180,lte=180"`
}

func NewLocation(lat, lng float64) *Location {
	return &Location{Lat: &lat, Lng: &lng}
}

// Pair returns the stored [lat, lng] form. The location must have been validated.
func (l *Location) Pair() []float64 {
	return []float64{*l.Lat, *l.Lng}
}

// RoomFilter is the parsed query of GET /rooms.
type RoomFilter struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Page     int
}

// Offset maps a 1-based page number to the number of rooms to skip. Pages
// too far out to count saturate at math.MaxInt64.
func (f RoomFilter) Offset() int64 {
	if f.Page <= 1 {
		return 0
	}
	skipped := int64(f.Page - 1)
	if skipped > math.MaxInt64/RoomsPageSize {
		return math.MaxInt64
	}
	return skipped * RoomsPageSize
}

// RoomPatch holds the owner-supplied fields of a room update; nil means absent.
type RoomPatch struct {
	Title       *string   `mapstructure:"title"`
	Description *string   `mapstructure:"description"`
	Price       *float64  `mapstructure:"price" validate:"omitempty,gte=0"`
	Location    *Location `mapstructure:"location"`
}

func (p RoomPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Location == nil
}

type AccountPatch struct {
	Email       *string `mapstructure:"email" validate:"omitempty,email"`
	Username    *string `mapstructure:"username"`
	Name        *string `mapstructure:"name"`
	Description *string `mapstructure:"description"`
}

func (p AccountPatch) IsEmpty() bool {
	return p.Email == nil && p.Username == nil && p.Name == nil && p.Description == nil
}

// Upload is a picture received from a client, ready to be sent to the image host.
type Upload struct {
	Content     io.Reader
	Size        int64
	ContentType string
	FileName    string
}
