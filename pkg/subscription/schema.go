// Package subscription owns the subscription record rules: defaults, field and
// cross-field validation, and the lifecycle step run right before every save.
package subscription

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"subscription-tracker-be/internal/entity"

	"github.com/go-playground/validator/v10"
)

// Schema is the record schema handed to the persistence layer.
type Schema struct {
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Schema)

// WithClock replaces time.Now, which tests use to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *Schema) {
		s.now = now
	}
}

func NewSchema(opts ...Option) *Schema {
	v := validator.New()
	RegisterRules(v)

	s := &Schema{
		validate: v,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Schema) Now() time.Time {
	return s.now()
}

// ApplyDefaults trims text fields, rounds the price to cents and fills currency,
// frequency and status.
func (s *Schema) ApplyDefaults(sub *entity.Subscription) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.PaymentMethod = strings.TrimSpace(sub.PaymentMethod)
	sub.Price = math.Round(sub.Price*100) / 100

	if sub.Currency == "" {
		sub.Currency = entity.CurrencyBRL
	}
	if sub.Frequency == "" {
		sub.Frequency = entity.FrequencyMonthly
	}
	if sub.Status == "" {
		sub.Status = entity.SubscriptionStatusActive
	}
	if sub.RenewalDate != nil && sub.RenewalDate.IsZero() {
		sub.RenewalDate = nil
	}
}

// Validate checks field rules and then the date ordering rules. checkStart controls the
// "start date not in the future" rule, which only applies to new records or when the
// start date was changed.
func (s *Schema) Validate(sub *entity.Subscription, now time.Time, checkStart bool) error {
	var errs ValidationErrors

	if err := s.validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		errs = append(errs, FromFieldErrors(fieldErrs)...)
	}

	errs = append(errs, ValidateDates(sub, now, checkStart)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Prepare is the save pipeline: defaults, validation, then the lifecycle step.
// Validation failures return before PrepareForSave runs and leave the renewal
// date and status untouched.
func (s *Schema) Prepare(sub *entity.Subscription, checkStart bool) error {
	now := s.Now()

	s.ApplyDefaults(sub)
	if err := s.Validate(sub, now, checkStart); err != nil {
		return err
	}
	if _, err := PrepareForSave(sub, now); err != nil {
		return fmt.Errorf("prepare subscription %s: %w", sub.Id, err)
	}
	return nil
}

// ValidateDates is the cross-field check over the whole record.
func ValidateDates(sub *entity.Subscription, now time.Time, checkStart bool) ValidationErrors {
	var errs ValidationErrors

	if sub.StartDate.IsZero() {
		// already reported as required
		return nil
	}

	if checkStart && sub.StartDate.After(now) {
		errs = append(errs, ValidationError{Field: "startDate", Message: "Start Date must be in the past"})
	}

	if sub.RenewalDate != nil && !sub.RenewalDate.IsZero() && !sub.RenewalDate.After(sub.StartDate) {
		errs = append(errs, ValidationError{Field: "renewalDate", Message: "Renewal Date must be after the Start Date"})
	}

	return errs
}
