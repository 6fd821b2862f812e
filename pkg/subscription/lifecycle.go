package subscription

import (
	"fmt"
	"time"

	"subscription-tracker-be/internal/entity"
)

// renewalPeriods is a fixed day count per billing interval, not calendar month/year math.
var renewalPeriods = map[entity.Frequency]int{
	entity.FrequencyDaily:   1,
	entity.FrequencyWeekly:  7,
	entity.FrequencyMonthly: 30,
	entity.FrequencyYearly:  365,
}

// RenewalPeriodDays returns the day offset for f.
func RenewalPeriodDays(f entity.Frequency) (int, bool) {
	days, ok := renewalPeriods[f]
	return days, ok
}

// PrepareForSave derives the renewal date when it is missing and marks the record
// expired once the renewal date has passed. The expiry overwrites any previous status,
// cancelled included.
//
// It mutates sub in place and returns it. On an unknown frequency the record is left
// untouched and ErrUnknownFrequency is returned.
func PrepareForSave(sub *entity.Subscription, now time.Time) (*entity.Subscription, error) {
	if sub.RenewalDate == nil || sub.RenewalDate.IsZero() {
		days, ok := RenewalPeriodDays(sub.Frequency)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFrequency, sub.Frequency)
		}
		renewal := sub.StartDate.AddDate(0, 0, days)
		sub.RenewalDate = &renewal
	}

	if sub.RenewalDate.Before(now) {
		sub.Status = entity.SubscriptionStatusExpired
	}

	return sub, nil
}
