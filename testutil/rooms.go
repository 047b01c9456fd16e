package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRoomStore mirrors the filtering, ordering and paging of the Mongo
// store. Owners are resolved through the account store it was built with.
type MemoryRoomStore struct {
	mu       sync.Mutex
	rooms    []*domain.Room
	accounts domain.AccountStore
}

func NewMemoryRoomStore(accounts domain.AccountStore) *MemoryRoomStore {
	return &MemoryRoomStore{accounts: accounts}
}

func (s *MemoryRoomStore) Find(ctx context.Context, filter domain.RoomFilter) ([]*domain.RoomView, error) {
	s.mu.Lock()
	matched := []*domain.Room{}
	for _, r := range s.rooms {
		if filter.Title != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.PriceMin != nil && r.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && r.Price > *filter.PriceMax {
			continue
		}
		matched = append(matched, copyRoom(r))
	}
	s.mu.Unlock()

	if filter.Sort != "" {
		asc := filter.Sort == domain.SortPriceAsc
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].Price == matched[j].Price {
				return matched[i].ID.Hex() < matched[j].ID.Hex()
			}
			if asc {
				return matched[i].Price < matched[j].Price
			}
			return matched[i].Price > matched[j].Price
		})
	}

	page := []*domain.Room{}
	if offset := filter.Offset(); offset < int64(len(matched)) {
		page = matched[offset:]
	}
	if len(page) > domain.RoomsPageSize {
		page = page[:domain.RoomsPageSize]
	}

	views := []*domain.RoomView{}
	for _, r := range page {
		view, err := s.view(ctx, r)
		if err != nil {
			return nil, err
		}
		view.Description = ""
		views = append(views, view)
	}
	return views, nil
}

func (s *MemoryRoomStore) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.RoomView, error) {
	s.mu.Lock()
	owned := []*domain.Room{}
	for _, r := range s.rooms {
		if r.User == ownerID {
			owned = append(owned, copyRoom(r))
		}
	}
	s.mu.Unlock()

	views := []*domain.RoomView{}
	for _, r := range owned {
		view, err := s.view(ctx, r)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *MemoryRoomStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.locked(id); r != nil {
		return copyRoom(r), nil
	}
	return nil, nil
}

func (s *MemoryRoomStore) GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.RoomView, error) {
	room, _ := s.Get(ctx, id)
	if room == nil {
		return nil, nil
	}
	return s.view(ctx, room)
}

func (s *MemoryRoomStore) Create(ctx context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room.ID = primitive.NewObjectID()
	if room.Photos == nil {
		room.Photos = []domain.Photo{}
	}
	s.rooms = append(s.rooms, copyRoom(room))
	return nil
}

func (s *MemoryRoomStore) Update(ctx context.Context, id primitive.ObjectID, patch domain.RoomPatch) (*domain.Room, error) {
	return s.mutate(id, func(r *domain.Room) error {
		if patch.Title != nil {
			r.Title = *patch.Title
		}
		if patch.Description != nil {
			r.Description = *patch.Description
		}
		if patch.Price != nil {
			r.Price = *patch.Price
		}
		if patch.Location != nil {
			r.Location = patch.Location.Pair()
		}
		return nil
	})
}

func (s *MemoryRoomStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rooms {
		if r.ID == id {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return nil
		}
	}
	return appErrors.NotFound(appErrors.RoomNotFound)
}

func (s *MemoryRoomStore) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rooms[:0]
	var deleted int64
	for _, r := range s.rooms {
		if r.User == ownerID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.rooms = kept
	return deleted, nil
}

func (s *MemoryRoomStore) AddPhoto(ctx context.Context, id primitive.ObjectID, photo domain.Photo) (*domain.Room, error) {
	return s.mutate(id, func(r *domain.Room) error {
		if len(r.Photos) >= domain.MaxPhotosPerRoom {
			return appErrors.LimitExceeded(appErrors.TooManyPictures)
		}
		r.Photos = append(r.Photos, photo)
		return nil
	})
}

func (s *MemoryRoomStore) RemovePhoto(ctx context.Context, id primitive.ObjectID, assetID string) (*domain.Room, error) {
	return s.mutate(id, func(r *domain.Room) error {
		at := r.FindPhoto(assetID)
		if at < 0 {
			return appErrors.NotFound(appErrors.PictureNotFound)
		}
		r.Photos = append(append([]domain.Photo{}, r.Photos[:at]...), r.Photos[at+1:]...)
		return nil
	})
}

// Len reports how many rooms are stored.
func (s *MemoryRoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *MemoryRoomStore) mutate(id primitive.ObjectID, fn func(*domain.Room) error) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.locked(id)
	if room == nil {
		return nil, appErrors.NotFound(appErrors.RoomNotFound)
	}
	if err := fn(room); err != nil {
		return nil, err
	}
	return copyRoom(room), nil
}

func (s *MemoryRoomStore) locked(id primitive.ObjectID) *domain.Room {
	for _, r := range s.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *MemoryRoomStore) view(ctx context.Context, room *domain.Room) (*domain.RoomView, error) {
	owner, err := s.accounts.Get(ctx, room.User)
	if err != nil {
		return nil, err
	}
	return domain.NewRoomView(room, owner), nil
}

func copyRoom(r *domain.Room) *domain.Room {
	c := *r
	c.Photos = append([]domain.Photo{}, r.Photos...)
	c.Location = append([]float64{}, r.Location...)
	return &c
}
