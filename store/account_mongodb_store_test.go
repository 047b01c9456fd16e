package store

import (
	"context"
	"testing"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.opentelemetry.io/otel/trace"
)

func newMockAccountStore(mt *mtest.T) *AccountMongoDBStore {
	logger, _ := test.NewNullLogger()
	return NewAccountMongoDBStore(mt.DB, trace.NewNoopTracerProvider().Tracer(""), logger)
}

func TestAccountStoreCreateDuplicates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	tcases := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "email",
			message: "E11000 duplicate key error collection: airbnb.users index: email_1 dup key",
			want:    appErrors.EmailAlreadyExist,
		},
		{
			name:    "username",
			message: "E11000 duplicate key error collection: airbnb.users index: account.username_1 dup key",
			want:    appErrors.UsernameAlreadyExist,
		},
	}

	for _, tc := range tcases {
		mt.Run(tc.name, func(mt *mtest.T) {
			mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: tc.message}))

			err := newMockAccountStore(mt).Create(context.Background(), &domain.Account{Email: "jdoe@example.com"})

			assert.Equal(mt, appErrors.KindAlreadyExists, appErrors.KindOf(err))
			assert.Equal(mt, tc.want, appErrors.MessageOf(err))
		})
	}
}

func TestAccountStoreLookups(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown token", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+UsersCollection, mtest.FirstBatch))

		account, err := newMockAccountStore(mt).GetByToken(context.Background(), "stale")

		require.NoError(mt, err)
		assert.Nil(mt, account)
	})

	mt.Run("by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+UsersCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "jdoe@example.com"},
			{Key: "account", Value: bson.D{{Key: "username", Value: "jdoe"}}},
			{Key: "token", Value: "t0k3n"},
			{Key: "rooms", Value: bson.A{}},
		}))

		account, err := newMockAccountStore(mt).GetByEmail(context.Background(), "jdoe@example.com")

		require.NoError(mt, err)
		require.NotNil(mt, account)
		assert.Equal(mt, id, account.ID)
		assert.Equal(mt, "jdoe", account.Account.Username)
		assert.Equal(mt, "jdoe@example.com", mt.GetStartedEvent().Command.Lookup("filter", "email").StringValue())
	})

	mt.Run("missing account on update", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}))

		err := newMockAccountStore(mt).AppendRoom(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

		assert.Equal(mt, appErrors.UserNotFound, appErrors.MessageOf(err))
	})
}
