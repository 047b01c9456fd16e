package application

import (
	stdErrors "errors"
	"strings"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkInput validates v against its struct tags. An absent required field
// is a missing parameter, anything else an invalid one.
func checkInput(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stdErrors.As(err, &fieldErrs) {
		return appErrors.Invalid(appErrors.InvalidParameter)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return appErrors.Missing(appErrors.MissingParameter)
		}
	}
	return appErrors.Invalid(appErrors.InvalidParameter)
}

// blankToNil drops a patch value that was sent empty.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func normalizeRoomPatch(p domain.RoomPatch) domain.RoomPatch {
	p.Title = blankToNil(p.Title)
	p.Description = blankToNil(p.Description)
	if p.Price != nil && *p.Price == 0 {
		p.Price = nil
	}
	return p
}

func normalizeAccountPatch(p domain.AccountPatch) domain.AccountPatch {
	p.Email = blankToNil(p.Email)
	p.Username = blankToNil(p.Username)
	p.Name = blankToNil(p.Name)
	p.Description = blankToNil(p.Description)
	return p
}
