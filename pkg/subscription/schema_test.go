package subscription

import (
	"errors"
	"strings"
	"testing"
	"time"

	"subscription-tracker-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	s := NewSchema()
	zero := time.Time{}
	sub := &entity.Subscription{
		Name:          "  Spotify  ",
		PaymentMethod: " pix ",
		RenewalDate:   &zero,
	}

	s.ApplyDefaults(sub)

	assert.Equal(t, "Spotify", sub.Name)
	assert.Equal(t, "pix", sub.PaymentMethod)
	assert.Equal(t, entity.CurrencyBRL, sub.Currency)
	assert.Equal(t, entity.FrequencyMonthly, sub.Frequency)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Nil(t, sub.RenewalDate)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	s := NewSchema()
	sub := &entity.Subscription{
		Currency:  entity.CurrencyUSD,
		Frequency: entity.FrequencyYearly,
		Status:    entity.SubscriptionStatusCancelled,
	}

	s.ApplyDefaults(sub)

	assert.Equal(t, entity.CurrencyUSD, sub.Currency)
	assert.Equal(t, entity.FrequencyYearly, sub.Frequency)
	assert.Equal(t, entity.SubscriptionStatusCancelled, sub.Status)
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	now := date(2024, 1, 10)
	s := NewSchema(WithClock(func() time.Time { return now }))

	sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
	renewal := date(2024, 1, 15)
	sub.RenewalDate = &renewal

	assert.NoError(t, s.Validate(sub, s.Now(), true))
}

func TestValidateFieldRules(t *testing.T) {
	now := date(2024, 1, 10)
	s := NewSchema()

	tests := []struct {
		name    string
		mutate  func(sub *entity.Subscription)
		field   string
		message string
	}{
		{"missing name", func(sub *entity.Subscription) { sub.Name = "" }, "name", "Subscription Name is Required"},
		{"short name", func(sub *entity.Subscription) { sub.Name = "N" }, "name", "Subscription Name must be at least 2 characters"},
		{"long name", func(sub *entity.Subscription) { sub.Name = strings.Repeat("a", 101) }, "name", "Subscription Name must be at most 100 characters"},
		{"negative price", func(sub *entity.Subscription) { sub.Price = -1 }, "price", "Price must be greater than 0"},
		{"unknown currency", func(sub *entity.Subscription) { sub.Currency = "JPY" }, "currency", "Currency must be one of USD, EUR, BRL"},
		{"unknown frequency", func(sub *entity.Subscription) { sub.Frequency = "hourly" }, "frequency", "Frequency must be one of daily, weekly, monthly, yearly"},
		{"missing category", func(sub *entity.Subscription) { sub.Category = "" }, "category", "Subscription Category is Required"},
		{"unknown category", func(sub *entity.Subscription) { sub.Category = "pets" }, "category", "Category is not supported"},
		{"missing payment method", func(sub *entity.Subscription) { sub.PaymentMethod = "" }, "paymentMethod", "Payment Method is Required"},
		{"unknown status", func(sub *entity.Subscription) { sub.Status = "paused" }, "status", "Status must be one of active, cancelled, expired"},
		{"missing start date", func(sub *entity.Subscription) { sub.StartDate = time.Time{} }, "startDate", "Subscription Start Date is Required"},
		{"missing user", func(sub *entity.Subscription) { sub.UserId = uuid.Nil }, "user", "User is Required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
			tt.mutate(sub)

			err := s.Validate(sub, now, true)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			assert.Equal(t, tt.message, verrs.GetByField(tt.field))
		})
	}
}

func TestValidateZeroPriceIsAllowed(t *testing.T) {
	sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
	sub.Price = 0

	assert.NoError(t, NewSchema().Validate(sub, date(2024, 1, 10), true))
}

func TestValidateDates(t *testing.T) {
	now := date(2024, 1, 10)

	t.Run("start date in the future is rejected", func(t *testing.T) {
		sub := newRecord(now.Add(time.Hour), entity.FrequencyMonthly)

		errs := ValidateDates(sub, now, true)

		assert.Equal(t, "Start Date must be in the past", errs.GetByField("startDate"))
	})

	t.Run("start date equal to now is accepted", func(t *testing.T) {
		sub := newRecord(now, entity.FrequencyMonthly)
		assert.Empty(t, ValidateDates(sub, now, true))
	})

	t.Run("future start is not rechecked on untouched updates", func(t *testing.T) {
		sub := newRecord(now.Add(time.Hour), entity.FrequencyMonthly)
		assert.Empty(t, ValidateDates(sub, now, false))
	})

	t.Run("renewal before start is rejected", func(t *testing.T) {
		sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
		renewal := date(2023, 12, 31)
		sub.RenewalDate = &renewal

		errs := ValidateDates(sub, now, true)

		assert.Equal(t, []string{"renewalDate"}, errs.Fields())
	})

	t.Run("renewal equal to start is rejected", func(t *testing.T) {
		sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
		renewal := date(2024, 1, 1)
		sub.RenewalDate = &renewal

		errs := ValidateDates(sub, now, true)

		assert.Equal(t, "Renewal Date must be after the Start Date", errs.GetByField("renewalDate"))
	})
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
	sub.Name = ""
	sub.Price = -5
	renewal := date(2023, 1, 1)
	sub.RenewalDate = &renewal

	err := NewSchema().Validate(sub, date(2024, 1, 10), true)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.ElementsMatch(t, []string{"name", "price", "renewalDate"}, verrs.Fields())
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateRejectsPriceAboveStorageRange(t *testing.T) {
	sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
	sub.Price = 1e12

	err := NewSchema().Validate(sub, date(2024, 1, 10), true)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Price must be at most 9999999999.99", verrs.GetByField("price"))
}

func TestApplyDefaultsRoundsPriceToCents(t *testing.T) {
	sub := newRecord(date(2024, 1, 1), entity.FrequencyMonthly)
	sub.Price = 19.987

	NewSchema().ApplyDefaults(sub)

	assert.Equal(t, 19.99, sub.Price)
}

func TestPrepareRunsTheWholePipeline(t *testing.T) {
	now := date(2024, 1, 10)
	s := NewSchema(WithClock(func() time.Time { return now }))

	sub := newRecord(date(2024, 1, 1), entity.FrequencyWeekly)
	sub.Currency = ""
	sub.Status = ""

	require.NoError(t, s.Prepare(sub, true))

	assert.Equal(t, entity.CurrencyBRL, sub.Currency)
	require.NotNil(t, sub.RenewalDate)
	assert.Equal(t, date(2024, 1, 8), *sub.RenewalDate)
	assert.Equal(t, entity.SubscriptionStatusExpired, sub.Status)
}

func TestPrepareStopsAtValidation(t *testing.T) {
	now := date(2024, 1, 10)
	s := NewSchema(WithClock(func() time.Time { return now }))

	sub := newRecord(date(2024, 2, 1), entity.FrequencyMonthly)

	err := s.Prepare(sub, true)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Start Date must be in the past", verrs.GetByField("startDate"))
	assert.Nil(t, sub.RenewalDate)

	// an unchanged start date on an existing record is not checked
	require.NoError(t, s.Prepare(sub, false))
	require.NotNil(t, sub.RenewalDate)
	assert.Equal(t, date(2024, 3, 2), *sub.RenewalDate)
}

func TestPrepareReportsUnknownFrequencyAsValidation(t *testing.T) {
	sub := newRecord(date(2024, 1, 1), entity.Frequency("fortnightly"))

	err := NewSchema().Prepare(sub, false)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"frequency"}, verrs.Fields())
	assert.Nil(t, sub.RenewalDate)
}
