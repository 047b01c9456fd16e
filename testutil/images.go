package testutil

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
)

// MemoryImageStore keeps uploaded bytes by asset id.
type MemoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	next    int

	// FailUpload and FailDelete make the matching call return an Internal error.
	FailUpload bool
	FailDelete bool
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{objects: map[string][]byte{}}
}

func (s *MemoryImageStore) Upload(ctx context.Context, folder string, image domain.Upload, existingAssetID string) (*domain.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpload {
		return nil, appErrors.Internal(stdErrors.New("upload failed"))
	}
	content, err := io.ReadAll(image.Content)
	if err != nil {
		return nil, appErrors.Internal(err)
	}

	key := existingAssetID
	if key == "" {
		s.next++
		key = path.Join(folder, fmt.Sprintf("img-%d", s.next))
	}
	s.objects[key] = content
	return &domain.Photo{URL: "https://images.test/" + key, AssetID: key}, nil
}

func (s *MemoryImageStore) Delete(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete {
		return appErrors.Internal(stdErrors.New("delete failed"))
	}
	delete(s.objects, assetID)
	return nil
}

func (s *MemoryImageStore) Has(assetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[assetID]
	return ok
}

func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// RecordingNotifier remembers every account it was told about.
type RecordingNotifier struct {
	mu       sync.Mutex
	Accounts []*domain.Account
	Err      error
}

func (n *RecordingNotifier) AccountCreated(ctx context.Context, account *domain.Account) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Accounts = append(n.Accounts, account)
	return n.Err
}
