// Package validators evaluates the validate tags on request DTOs and renders
// failures as the ordered field/message list the API contract promises,
// never a single opaque string.
package validators

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ace-TI85/dev-connector/internal/api/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their json names so messages line up with what
	// the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates req and returns one FieldError per failed rule, in
// declaration order. Nil means valid.
func Struct(req any) []types.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []types.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, types.FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", title(fe.Field()))
	case "email":
		return "Please include a valid e-mail"
	case "min":
		if fe.Field() == "password" {
			return fmt.Sprintf("Please enter a password with %s or more characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", title(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", title(fe.Field()))
	}
}

func title(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
