package application

import (
	"context"
	"fmt"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AccountService struct {
	store    domain.AccountStore
	rooms    domain.RoomStore
	images   domain.ImageStore
	notifier domain.Notifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewAccountService(store domain.AccountStore, rooms domain.RoomStore, images domain.ImageStore, notifier domain.Notifier, tracer trace.Tracer, logger *logrus.Logger) *AccountService {
	return &AccountService{
		store:    store,
		rooms:    rooms,
		images:   images,
		notifier: notifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (service *AccountService) Signup(ctx context.Context, input domain.SignupInput) (*domain.AuthView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.Signup")
	defer span.End()

	if err := checkInput(input); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, appErrors.Missing(appErrors.PasswordsDontMatch)
	}

	existing, err := service.store.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.AlreadyExists(appErrors.EmailAlreadyExist)
	}
	existing, err = service.store.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.AlreadyExists(appErrors.UsernameAlreadyExist)
	}

	salt := NewSalt()
	hash, err := HashPassword(input.Password, salt)
	if err != nil {
		return nil, appErrors.Internal(err)
	}

	account := &domain.Account{
		Email: input.Email,
		Account: domain.AccountInfo{
			Username:    input.Username,
			Name:        input.Name,
			Description: input.Description,
		},
		Token: NewToken(),
		Hash:  hash,
		Salt:  salt,
		Rooms: []primitive.ObjectID{},
	}
	if err := service.store.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := service.notifier.AccountCreated(ctx, account); err != nil {
		service.logger.WithError(err).WithField("account", account.ID.Hex()).Warn("welcome mail not sent")
	}
	service.logger.WithField("account", account.ID.Hex()).Info("account created")

	return authView(account), nil
}

func (service *AccountService) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.Login")
	defer span.End()

	if err := checkInput(input); err != nil {
		return nil, err
	}

	account, err := service.store.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, appErrors.NotFound(appErrors.AccountNotExist)
	}
	if !VerifyPassword(input.Password, account.Salt, account.Hash) {
		span.SetStatus(codes.Error, "password mismatch")
		return nil, appErrors.Unauthorized()
	}
	return authView(account), nil
}

// Authenticate resolves a bearer token to its account.
func (service *AccountService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.Authenticate")
	defer span.End()

	if token == "" {
		return nil, appErrors.Unauthorized()
	}
	account, err := service.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, appErrors.Unauthorized()
	}
	return account, nil
}

func (service *AccountService) GetProfile(ctx context.Context, id primitive.ObjectID) (*domain.ProfileView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.GetProfile")
	defer span.End()

	account, err := service.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return publicProfile(account), nil
}

func (service *AccountService) GetRooms(ctx context.Context, id primitive.ObjectID) ([]*domain.RoomView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.GetRooms")
	defer span.End()

	if _, err := service.get(ctx, id); err != nil {
		return nil, err
	}
	return service.rooms.FindByOwner(ctx, id)
}

// UploadPicture sets or replaces the account photo. A replacement keeps the
// asset id of the previous photo.
func (service *AccountService) UploadPicture(ctx context.Context, actor *domain.Account, id primitive.ObjectID, upload domain.Upload) (*domain.ProfileView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.UploadPicture")
	defer span.End()

	account, err := service.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	existing := ""
	if account.Account.Photo != nil {
		existing = account.Account.Photo.AssetID
	}
	photo, err := service.images.Upload(ctx, accountFolder(id), upload, existing)
	if err != nil {
		return nil, err
	}
	if err := service.store.SetPhoto(ctx, id, photo); err != nil {
		return nil, err
	}

	account.Account.Photo = photo
	return ownProfile(account), nil
}

func (service *AccountService) DeletePicture(ctx context.Context, actor *domain.Account, id primitive.ObjectID) (*domain.ProfileView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.DeletePicture")
	defer span.End()

	account, err := service.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if account.Account.Photo == nil {
		return nil, appErrors.NotFound(appErrors.PictureNotFound)
	}

	if err := service.store.SetPhoto(ctx, id, nil); err != nil {
		return nil, err
	}
	service.deleteImage(ctx, account.Account.Photo.AssetID)

	account.Account.Photo = nil
	return ownProfile(account), nil
}

// Update applies the non-empty fields of patch. A new email or username must
// not belong to another account.
func (service *AccountService) Update(ctx context.Context, actor *domain.Account, id primitive.ObjectID, patch domain.AccountPatch) (*domain.ProfileView, error) {
	ctx, span := service.tracer.Start(ctx, "AccountService.Update")
	defer span.End()

	account, err := service.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	patch = normalizeAccountPatch(patch)
	if patch.IsEmpty() {
		return nil, appErrors.Missing(appErrors.NothingToModify)
	}
	if err := checkInput(patch); err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != account.Email {
		other, err := service.store.GetByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, appErrors.AlreadyExists(appErrors.EmailAlreadyExist)
		}
	}
	if patch.Username != nil && *patch.Username != account.Account.Username {
		other, err := service.store.GetByUsername(ctx, *patch.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, appErrors.AlreadyExists(appErrors.UsernameAlreadyExist)
		}
	}

	updated, err := service.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return ownProfile(updated), nil
}

// Delete removes the account, every room it owns and their pictures. The
// steps are independent writes; a failure part way leaves the rooms deleted.
func (service *AccountService) Delete(ctx context.Context, actor *domain.Account, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "AccountService.Delete")
	defer span.End()

	account, err := service.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	var assets []string
	for _, roomID := range account.Rooms {
		room, err := service.rooms.Get(ctx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			continue
		}
		for _, photo := range room.Photos {
			assets = append(assets, photo.AssetID)
		}
	}
	if account.Account.Photo != nil {
		assets = append(assets, account.Account.Photo.AssetID)
	}

	deleted, err := service.rooms.DeleteByOwner(ctx, id)
	if err != nil {
		return err
	}
	if err := service.store.Delete(ctx, id); err != nil {
		return err
	}
	for _, assetID := range assets {
		service.deleteImage(ctx, assetID)
	}

	service.logger.WithFields(logrus.Fields{"account": id.Hex(), "rooms": deleted}).Info("account deleted")
	return nil
}

func (service *AccountService) get(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	account, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, appErrors.NotFound(appErrors.UserNotFound)
	}
	return account, nil
}

// owned loads the account id on behalf of actor, who must be that account.
func (service *AccountService) owned(ctx context.Context, actor *domain.Account, id primitive.ObjectID) (*domain.Account, error) {
	if actor == nil || actor.ID != id {
		return nil, appErrors.Unauthorized()
	}
	return service.get(ctx, id)
}

func (service *AccountService) deleteImage(ctx context.Context, assetID string) {
	if err := service.images.Delete(ctx, assetID); err != nil {
		service.logger.WithError(err).WithField("asset", assetID).Warn("image not deleted from host")
	}
}

func accountFolder(id primitive.ObjectID) string {
	return fmt.Sprintf("%s/%s", domain.UsersFolderPrefix, id.Hex())
}

func authView(account *domain.Account) *domain.AuthView {
	return &domain.AuthView{
		ID:      account.ID,
		Email:   account.Email,
		Account: account.Account,
		Token:   account.Token,
	}
}

func publicProfile(account *domain.Account) *domain.ProfileView {
	return &domain.ProfileView{
		ID:      account.ID,
		Account: account.Account,
		Rooms:   account.Rooms,
	}
}

func ownProfile(account *domain.Account) *domain.ProfileView {
	view := publicProfile(account)
	view.Email = account.Email
	return view
}
