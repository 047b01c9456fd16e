package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tcases := []struct {
		name string
		err  error
		kind Kind
	}{
		{name: "missing parameter", err: Missing(MissingParameter), kind: KindMissingParameter},
		{name: "wrapped not found", err: fmt.Errorf("loading room: %w", NotFound(RoomNotFound)), kind: KindNotFound},
		{name: "limit exceeded", err: LimitExceeded(TooManyPictures), kind: KindLimitExceeded},
		{name: "plain error", err: stdErrors.New("boom"), kind: KindInternal},
		{name: "internal", err: Internal(stdErrors.New("db down")), kind: KindInternal},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, KindOf(tc.err))
		})
	}
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, InternalError, MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, InternalError, MessageOf(stdErrors.New("anything")))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Unauthorized(), KindUnauthorized))
	assert.False(t, Is(nil, KindInternal))
	assert.False(t, Is(AlreadyExists(EmailAlreadyExist), KindNotFound))
	assert.Equal(t, "AlreadyExists", KindAlreadyExists.String())
}
