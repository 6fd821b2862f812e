package serverutils

import (
	"reflect"
	"strings"

	"subscription-tracker-be/pkg/subscription"

	"github.com/go-playground/validator/v10"
)

var validate = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	subscription.RegisterRules(v)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// ValidateRequest checks a request DTO and returns subscription.ValidationErrors on failure.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		return subscription.FromFieldErrors(fieldErrs)
	}
	return err
}
