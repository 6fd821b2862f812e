package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// RenewalBetween matches subscriptions renewing in [From, To).
type RenewalBetween struct {
	From time.Time
	To   time.Time
}

func (s RenewalBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("renewal_date >= ? AND renewal_date < ?", s.From, s.To)
}
