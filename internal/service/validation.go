package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type createDuoInput struct {
	Name       string `validate:"required"`
	NoobPuuid  string `validate:"required"`
	CarryPuuid string `validate:"required,nefield=NoobPuuid"`
}

type recordGameInput struct {
	DuoID   string `validate:"required"`
	MatchID string `validate:"required"`
}

// validateInput runs struct tag validation and reports the first failing
// field as ErrInvalidArgument.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	fe := fields[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, fe.Field())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidArgument, fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "nefield":
		return fmt.Errorf("%w: %s must differ from %s", ErrInvalidArgument, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidArgument, fe.Field(), fe.Tag())
	}
}
