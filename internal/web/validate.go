package web

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/jaarrekening/internal/core"
)

// yearRef addresses one stored fiscal year.
type yearRef struct {
	Company string `validate:"required,max=100" json:"company"`
	Year    int    `validate:"gte=1900,lte=2100" json:"year"`
}

// exportQuery is the query of the export endpoint.
type exportQuery struct {
	Format string `validate:"omitempty,oneof=json csv xlsx" json:"format"`
}

// historyQuery is the query of the upload history endpoints.
type historyQuery struct {
	Limit int `validate:"gte=0,lte=1000" json:"limit"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks v and returns an errInvalid listing every failed field.
func (s *Server) validate(v any) error {
	err := s.validator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errInvalid, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = formatValidationError(fe)
	}
	return fmt.Errorf("%w: %s", errInvalid, strings.Join(msgs, "; "))
}

func formatValidationError(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		if field == "year" {
			return fmt.Sprintf("year must be between %d and %d", core.MinYear, core.MaxYear)
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		if field == "year" {
			return fmt.Sprintf("year must be between %d and %d", core.MinYear, core.MaxYear)
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
