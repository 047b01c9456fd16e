// Package testutil holds in-memory implementations of the domain stores and
// adapters for use in tests.
package testutil

import (
	"context"
	"sync"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts []*domain.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{}
}

func (s *MemoryAccountStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	return s.find(func(a *domain.Account) bool { return a.ID == id }), nil
}

func (s *MemoryAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.find(func(a *domain.Account) bool { return a.Email == email }), nil
}

func (s *MemoryAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.find(func(a *domain.Account) bool { return a.Account.Username == username }), nil
}

func (s *MemoryAccountStore) GetByToken(ctx context.Context, token string) (*domain.Account, error) {
	return s.find(func(a *domain.Account) bool { return a.Token == token }), nil
}

func (s *MemoryAccountStore) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(primitive.NilObjectID, account.Email, account.Account.Username); err != nil {
		return err
	}
	account.ID = primitive.NewObjectID()
	if account.Rooms == nil {
		account.Rooms = []primitive.ObjectID{}
	}
	s.accounts = append(s.accounts, copyAccount(account))
	return nil
}

func (s *MemoryAccountStore) Update(ctx context.Context, id primitive.ObjectID, patch domain.AccountPatch) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.locked(id)
	if account == nil {
		return nil, appErrors.NotFound(appErrors.UserNotFound)
	}

	email, username := account.Email, account.Account.Username
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	if err := s.checkUnique(id, email, username); err != nil {
		return nil, err
	}

	account.Email = email
	account.Account.Username = username
	if patch.Name != nil {
		account.Account.Name = *patch.Name
	}
	if patch.Description != nil {
		account.Account.Description = *patch.Description
	}
	return copyAccount(account), nil
}

func (s *MemoryAccountStore) SetPhoto(ctx context.Context, id primitive.ObjectID, photo *domain.Photo) error {
	return s.mutate(id, func(a *domain.Account) {
		if photo == nil {
			a.Account.Photo = nil
			return
		}
		p := *photo
		a.Account.Photo = &p
	})
}

func (s *MemoryAccountStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return appErrors.NotFound(appErrors.UserNotFound)
}

func (s *MemoryAccountStore) AppendRoom(ctx context.Context, id primitive.ObjectID, roomID primitive.ObjectID) error {
	return s.mutate(id, func(a *domain.Account) {
		a.Rooms = append(a.Rooms, roomID)
	})
}

func (s *MemoryAccountStore) RemoveRoom(ctx context.Context, id primitive.ObjectID, roomID primitive.ObjectID) error {
	return s.mutate(id, func(a *domain.Account) {
		rooms := []primitive.ObjectID{}
		for _, r := range a.Rooms {
			if r != roomID {
				rooms = append(rooms, r)
			}
		}
		a.Rooms = rooms
	})
}

// Len reports how many accounts are stored.
func (s *MemoryAccountStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

func (s *MemoryAccountStore) mutate(id primitive.ObjectID, fn func(*domain.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.locked(id)
	if account == nil {
		return appErrors.NotFound(appErrors.UserNotFound)
	}
	fn(account)
	return nil
}

func (s *MemoryAccountStore) find(match func(*domain.Account) bool) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if match(a) {
			return copyAccount(a)
		}
	}
	return nil
}

func (s *MemoryAccountStore) locked(id primitive.ObjectID) *domain.Account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *MemoryAccountStore) checkUnique(self primitive.ObjectID, email, username string) error {
	for _, a := range s.accounts {
		if a.ID == self {
			continue
		}
		if a.Email == email {
			return appErrors.AlreadyExists(appErrors.EmailAlreadyExist)
		}
		if a.Account.Username == username {
			return appErrors.AlreadyExists(appErrors.UsernameAlreadyExist)
		}
	}
	return nil
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Rooms = append([]primitive.ObjectID{}, a.Rooms...)
	if a.Account.Photo != nil {
		p := *a.Account.Photo
		c.Account.Photo = &p
	}
	return &c
}
