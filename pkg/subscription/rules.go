package subscription

import (
	"fmt"

	"subscription-tracker-be/internal/entity"

	"github.com/go-playground/validator/v10"
)

// RegisterRules installs the enum tags used by entity.Subscription (and by request DTOs)
// on v. Empty values pass so that `required` stays responsible for presence.
func RegisterRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register validation tag %q: %v", tag, err))
		}
	}

	mustRegister("subscription_currency", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || entity.Currency(value).IsValid()
	})
	mustRegister("subscription_frequency", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || entity.Frequency(value).IsValid()
	})
	mustRegister("subscription_category", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || entity.Category(value).IsValid()
	})
	mustRegister("subscription_status", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || entity.SubscriptionStatus(value).IsValid()
	})
}

type fieldRule struct {
	name     string
	messages map[string]string
}

// fieldRules maps entity struct fields to their public name and per-tag messages.
var fieldRules = map[string]fieldRule{
	"Name": {
		name: "name",
		messages: map[string]string{
			"required": "Subscription Name is Required",
			"min":      "Subscription Name must be at least 2 characters",
			"max":      "Subscription Name must be at most 100 characters",
		},
	},
	"Price": {
		name:     "price",
		messages: map[string]string{
			"required": "Price is Required",
			"gte":      "Price must be greater than 0",
			"lte":      "Price must be at most 9999999999.99",
		},
	},
	"Currency": {
		name:     "currency",
		messages: map[string]string{"subscription_currency": "Currency must be one of USD, EUR, BRL"},
	},
	"Frequency": {
		name:     "frequency",
		messages: map[string]string{"subscription_frequency": "Frequency must be one of daily, weekly, monthly, yearly"},
	},
	"Category": {
		name: "category",
		messages: map[string]string{
			"required":              "Subscription Category is Required",
			"subscription_category": "Category is not supported",
		},
	},
	"PaymentMethod": {
		name:     "paymentMethod",
		messages: map[string]string{"required": "Payment Method is Required"},
	},
	"Status": {
		name:     "status",
		messages: map[string]string{"subscription_status": "Status must be one of active, cancelled, expired"},
	},
	"StartDate": {
		name:     "startDate",
		messages: map[string]string{"required": "Subscription Start Date is Required"},
	},
	"UserId": {
		name:     "user",
		messages: map[string]string{"required": "User is Required"},
	},
}

func describe(fe validator.FieldError) ValidationError {
	rule, ok := fieldRules[fe.StructField()]
	if !ok {
		return ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed on '%s'", fe.Tag())}
	}
	if msg, ok := rule.messages[fe.Tag()]; ok {
		return ValidationError{Field: rule.name, Message: msg}
	}
	return ValidationError{Field: rule.name, Message: fmt.Sprintf("failed on '%s'", fe.Tag())}
}

// FromFieldErrors converts validator failures into ValidationErrors. Request structs
// share the entity's field names, so they get the same messages.
func FromFieldErrors(fieldErrs validator.ValidationErrors) ValidationErrors {
	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, describe(fe))
	}
	return errs
}
