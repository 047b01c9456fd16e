package application

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSignup(t *testing.T) {
	f := newFixture()

	view, err := f.account.Signup(context.Background(), signupInput("jdoe"))

	require.NoError(t, err)
	assert.False(t, view.ID.IsZero())
	assert.Equal(t, "jdoe@example.com", view.Email)
	assert.Equal(t, "jdoe", view.Account.Username)
	assert.Len(t, view.Token, 64)
	require.Len(t, f.notifier.Accounts, 1)

	stored, _ := f.accounts.Get(context.Background(), view.ID)
	assert.NotEqual(t, "secret", stored.Hash)
	assert.True(t, VerifyPassword("secret", stored.Salt, stored.Hash))
}

func TestSignupRejections(t *testing.T) {
	tcases := []struct {
		name    string
		mutate  func(*domain.SignupInput)
		kind    appErrors.Kind
		message string
	}{
		{
			name:    "duplicate email",
			mutate:  func(in *domain.SignupInput) { in.Username = "other" },
			kind:    appErrors.KindAlreadyExists,
			message: appErrors.EmailAlreadyExist,
		},
		{
			name:    "duplicate username",
			mutate:  func(in *domain.SignupInput) { in.Email = "other@example.com" },
			kind:    appErrors.KindAlreadyExists,
			message: appErrors.UsernameAlreadyExist,
		},
		{
			name: "passwords differ",
			mutate: func(in *domain.SignupInput) {
				in.Email, in.Username, in.ConfirmPassword = "new@example.com", "new", "secreT"
			},
			kind:    appErrors.KindMissingParameter,
			message: appErrors.PasswordsDontMatch,
		},
		{
			name: "missing description",
			mutate: func(in *domain.SignupInput) {
				in.Email, in.Username, in.Description = "new@example.com", "new", ""
			},
			kind:    appErrors.KindMissingParameter,
			message: appErrors.MissingParameter,
		},
		{
			name: "malformed email",
			mutate: func(in *domain.SignupInput) {
				in.Email, in.Username = "not-an-email", "new"
			},
			kind:    appErrors.KindInvalidParameter,
			message: appErrors.InvalidParameter,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.signup(t, "jdoe")

			input := signupInput("jdoe")
			tc.mutate(&input)
			view, err := f.account.Signup(context.Background(), input)

			assert.Nil(t, view)
			assert.Equal(t, tc.kind, appErrors.KindOf(err))
			assert.Equal(t, tc.message, appErrors.MessageOf(err))
			assert.Equal(t, 1, f.accounts.Len())
		})
	}
}

func TestSignupSurvivesNotifierFailure(t *testing.T) {
	f := newFixture()
	f.notifier.Err = stdErrors.New("smtp down")

	_, err := f.account.Signup(context.Background(), signupInput("jdoe"))

	assert.NoError(t, err)
	assert.Equal(t, 1, f.accounts.Len())
}

func TestLogin(t *testing.T) {
	f := newFixture()
	signup, err := f.account.Signup(context.Background(), signupInput("jdoe"))
	require.NoError(t, err)

	view, err := f.account.Login(context.Background(), domain.LoginInput{Email: "jdoe@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, signup.Token, view.Token)
	assert.Equal(t, signup.ID, view.ID)

	view, err = f.account.Login(context.Background(), domain.LoginInput{Email: "jdoe@example.com", Password: "wrong"})
	assert.Nil(t, view)
	assert.True(t, appErrors.Is(err, appErrors.KindUnauthorized))

	_, err = f.account.Login(context.Background(), domain.LoginInput{Email: "nobody@example.com", Password: "secret"})
	assert.Equal(t, appErrors.AccountNotExist, appErrors.MessageOf(err))

	_, err = f.account.Login(context.Background(), domain.LoginInput{Email: "jdoe@example.com"})
	assert.True(t, appErrors.Is(err, appErrors.KindMissingParameter))
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	account := f.signup(t, "jdoe")

	found, err := f.account.Authenticate(context.Background(), account.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = f.account.Authenticate(context.Background(), "unknown")
	assert.True(t, appErrors.Is(err, appErrors.KindUnauthorized))
	_, err = f.account.Authenticate(context.Background(), "")
	assert.True(t, appErrors.Is(err, appErrors.KindUnauthorized))
}

func TestGetProfileHidesEmail(t *testing.T) {
	f := newFixture()
	account := f.signup(t, "jdoe")
	room := f.publish(t, account, "Loft", 100)

	profile, err := f.account.GetProfile(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Email)
	assert.Equal(t, []primitive.ObjectID{room.ID}, profile.Rooms)

	_, err = f.account.GetProfile(context.Background(), primitive.NewObjectID())
	assert.Equal(t, appErrors.UserNotFound, appErrors.MessageOf(err))
}

func TestGetRooms(t *testing.T) {
	f := newFixture()
	account := f.signup(t, "jdoe")
	f.publish(t, account, "Loft", 100)
	f.publish(t, account, "Cabin", 80)

	rooms, err := f.account.GetRooms(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "jdoe", rooms[0].User.Account.Username)
	assert.Equal(t, "nice place", rooms[0].Description)
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture()
	account := f.signup(t, "jdoe")
	f.signup(t, "taken")

	_, err := f.account.Update(context.Background(), account, account.ID, domain.AccountPatch{})
	assert.Equal(t, appErrors.KindMissingParameter, appErrors.KindOf(err))
	assert.Equal(t, appErrors.NothingToModify, appErrors.MessageOf(err))

	blank := "  "
	_, err = f.account.Update(context.Background(), account, account.ID, domain.AccountPatch{Name: &blank})
	assert.Equal(t, appErrors.NothingToModify, appErrors.MessageOf(err))

	name := "John"
	profile, err := f.account.Update(context.Background(), account, account.ID, domain.AccountPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "John", profile.Account.Name)
	assert.Equal(t, "jdoe", profile.Account.Username)
	assert.Equal(t, "traveller", profile.Account.Description)
	assert.Equal(t, "jdoe@example.com", profile.Email)

	taken := "taken"
	_, err = f.account.Update(context.Background(), account, account.ID, domain.AccountPatch{Username: &taken})
	assert.Equal(t, appErrors.UsernameAlreadyExist, appErrors.MessageOf(err))

	same := "jdoe@example.com"
	_, err = f.account.Update(context.Background(), account, account.ID, domain.AccountPatch{Email: &same})
	assert.NoError(t, err)
}

func TestAccountMutationsRequireSelf(t *testing.T) {
	f := newFixture()
	owner := f.signup(t, "jdoe")
	intruder := f.signup(t, "mallory")
	name := "x"

	_, err := f.account.Update(context.Background(), intruder, owner.ID, domain.AccountPatch{Name: &name})
	assert.True(t, appErrors.Is(err, appErrors.KindUnauthorized))
	_, err = f.account.UploadPicture(context.Background(), intruder, owner.ID, jpeg())
	assert.True(t, appErrors.Is(err, appErrors.KindUnauthorized))
	_, err = f.account.DeletePicture(context.Background(), nil, owner.ID)
	assert.True(t, appErrors.Is(err, appErrors.KindUnauthorized))
	assert.True(t, appErrors.Is(f.account.Delete(context.Background(), intruder, owner.ID), appErrors.KindUnauthorized))
	assert.Equal(t, 2, f.accounts.Len())
}

func TestAccountPicture(t *testing.T) {
	f := newFixture()
	account := f.signup(t, "jdoe")

	_, err := f.account.DeletePicture(context.Background(), account, account.ID)
	assert.Equal(t, appErrors.PictureNotFound, appErrors.MessageOf(err))

	first, err := f.account.UploadPicture(context.Background(), account, account.ID, jpeg())
	require.NoError(t, err)
	require.NotNil(t, first.Account.Photo)
	assert.Contains(t, first.Account.Photo.AssetID, "airbnb/users/"+account.ID.Hex())

	second, err := f.account.UploadPicture(context.Background(), account, account.ID, jpeg())
	require.NoError(t, err)
	assert.Equal(t, first.Account.Photo.AssetID, second.Account.Photo.AssetID)
	assert.Equal(t, 1, f.images.Len())

	profile, err := f.account.DeletePicture(context.Background(), account, account.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.Account.Photo)
	assert.Equal(t, 0, f.images.Len())

	stored, _ := f.accounts.Get(context.Background(), account.ID)
	assert.Nil(t, stored.Account.Photo)
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newFixture()
	owner := f.signup(t, "jdoe")
	other := f.signup(t, "jane")
	room := f.publish(t, owner, "Loft", 100)
	f.publish(t, owner, "Cabin", 80)
	kept := f.publish(t, other, "Villa", 300)

	_, err := f.room.UploadPicture(context.Background(), owner, room.ID, jpeg())
	require.NoError(t, err)
	_, err = f.account.UploadPicture(context.Background(), owner, owner.ID, jpeg())
	require.NoError(t, err)

	owner, _ = f.accounts.Get(context.Background(), owner.ID)
	require.NoError(t, f.account.Delete(context.Background(), owner, owner.ID))

	assert.Equal(t, 1, f.accounts.Len())
	assert.Equal(t, 1, f.rooms.Len())
	assert.Equal(t, 0, f.images.Len())
	remaining, _ := f.rooms.Get(context.Background(), kept.ID)
	assert.NotNil(t, remaining)
}
