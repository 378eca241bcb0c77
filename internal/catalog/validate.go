package catalog

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// record is one catalog row as checked by the validator.
type record struct {
	Game string `csv:"game" validate:"required"`
	ID   string `csv:"id" validate:"required"`
}

var rowValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if tag := fld.Tag.Get("csv"); tag != "" && tag != "-" {
			return tag
		}
		return fld.Name
	})
	return v
})

// validateRecord returns a human readable reason when row is unusable, or an
// empty string.
func validateRecord(row record) string {
	err := rowValidator().Struct(row)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			reasons = append(reasons, "missing "+fe.Field())
		default:
			reasons = append(reasons, fe.Field()+" failed "+fe.Tag())
		}
	}
	return strings.Join(reasons, ", ")
}
