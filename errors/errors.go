package errors

import (
	stdErrors "errors"
	"fmt"
)

const (
	MissingParameter      = "Missing parameter"
	MissingPhoto          = "Missing photo"
	MissingRoomID         = "Missing room id"
	InvalidParameter      = "Invalid parameter"
	PasswordsDontMatch    = "Passwords don't match"
	EmailAlreadyExist     = "This email already has an account"
	UsernameAlreadyExist  = "This username already has an account"
	AccountNotExist       = "This account does not exist"
	UserNotFound          = "User not found"
	RoomNotFound          = "Room not found"
	PictureNotFound       = "Picture not found"
	UnauthorizedError     = "Unauthorized"
	TooManyPictures       = "Can't add more than 5 pictures"
	NothingToModify       = "You need to modify at least one element"
	RouteNotFound         = "Route not found"
	InternalError         = "Internal server error"
	ImageStoreUnavailable = "Image host unavailable"
)

// Kind classifies an Error; handlers turn it into an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingParameter
	KindInvalidParameter
	KindAlreadyExists
	KindNotFound
	KindUnauthorized
	KindLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case KindMissingParameter:
		return "MissingParameter"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindLimitExceeded:
		return "LimitExceeded"
	default:
		return "Internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Missing(message string) *Error {
	return New(KindMissingParameter, message)
}

func Invalid(message string) *Error {
	return New(KindInvalidParameter, message)
}

func AlreadyExists(message string) *Error {
	return New(KindAlreadyExists, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized() *Error {
	return New(KindUnauthorized, UnauthorizedError)
}

func LimitExceeded(message string) *Error {
	return New(KindLimitExceeded, message)
}

// Internal wraps an unexpected store or adapter failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: InternalError, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
// Anything else is Internal.
func KindOf(err error) Kind {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err. Internal failures never
// leak their cause.
func MessageOf(err error) string {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Message
	}
	return InternalError
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
