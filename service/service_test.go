package application

import (
	"context"
	"strings"
	"testing"

	"github.com/cadupuy/airbnb-backend/domain"
	"github.com/cadupuy/airbnb-backend/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

type fixture struct {
	accounts *testutil.MemoryAccountStore
	rooms    *testutil.MemoryRoomStore
	images   *testutil.MemoryImageStore
	notifier *testutil.RecordingNotifier
	account  *AccountService
	room     *RoomService
}

func newFixture() *fixture {
	logger, _ := test.NewNullLogger()
	tracer := trace.NewNoopTracerProvider().Tracer("")

	f := &fixture{
		accounts: testutil.NewMemoryAccountStore(),
		images:   testutil.NewMemoryImageStore(),
		notifier: &testutil.RecordingNotifier{},
	}
	f.rooms = testutil.NewMemoryRoomStore(f.accounts)
	f.account = NewAccountService(f.accounts, f.rooms, f.images, f.notifier, tracer, logger)
	f.room = NewRoomService(f.rooms, f.accounts, f.images, tracer, logger)
	return f
}

func signupInput(username string) domain.SignupInput {
	return domain.SignupInput{
		Email:           username + "@example.com",
		Username:        username,
		Password:        "secret",
		ConfirmPassword: "secret",
		Description:     "traveller",
	}
}

// signup creates an account and returns it as stored.
func (f *fixture) signup(t *testing.T, username string) *domain.Account {
	t.Helper()
	view, err := f.account.Signup(context.Background(), signupInput(username))
	require.NoError(t, err)
	account, err := f.accounts.Get(context.Background(), view.ID)
	require.NoError(t, err)
	return account
}

// publish creates a room owned by owner.
func (f *fixture) publish(t *testing.T, owner *domain.Account, title string, price float64) *domain.Room {
	t.Helper()
	room, err := f.room.Publish(context.Background(), owner, domain.RoomInput{
		Title:       title,
		Description: "nice place",
		Price:       price,
		Location:    domain.NewLocation(48.85, 2.35),
	})
	require.NoError(t, err)
	return room
}

func jpeg() domain.Upload {
	return domain.Upload{Content: strings.NewReader("jpeg"), Size: 4, ContentType: "image/jpeg"}
}
