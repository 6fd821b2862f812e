package entity

import (
	"time"

	"github.com/google/uuid"
)

type Currency string
type Frequency string
type Category string
type SubscriptionStatus string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyBRL Currency = "BRL"

	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"

	CategorySports        Category = "sports"
	CategoryNews          Category = "news"
	CategoryEntertainment Category = "entertainment"
	CategoryGaming        Category = "gaming"
	CategoryLifestyle     Category = "lifestyle"
	CategoryTechnology    Category = "technology"
	CategoryFinance       Category = "finance"
	CategoryHealth        Category = "health"
	CategoryStreaming     Category = "streaming"
	CategoryMusic         Category = "music"
	CategoryCloud         Category = "cloud"
	CategorySoftware      Category = "software"
	CategoryOther         Category = "other"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

var (
	Currencies  = []Currency{CurrencyUSD, CurrencyEUR, CurrencyBRL}
	Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}
	Categories  = []Category{
		CategorySports, CategoryNews, CategoryEntertainment, CategoryGaming, CategoryLifestyle,
		CategoryTechnology, CategoryFinance, CategoryHealth, CategoryStreaming, CategoryMusic,
		CategoryCloud, CategorySoftware, CategoryOther,
	}
	SubscriptionStatuses = []SubscriptionStatus{
		SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired,
	}
)

func (c Currency) IsValid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

func (f Frequency) IsValid() bool {
	for _, v := range Frequencies {
		if f == v {
			return true
		}
	}
	return false
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (s SubscriptionStatus) IsValid() bool {
	for _, v := range SubscriptionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Subscription is one user's recurring payment commitment.
// Price presence is checked on the request DTO since zero is a legal price.
type Subscription struct {
	Id            uuid.UUID
	Name          string             `validate:"required,min=2,max=100"`
	Price         float64            `validate:"gte=0,lte=9999999999.99"`
	Currency      Currency           `validate:"required,subscription_currency"`
	Frequency     Frequency          `validate:"required,subscription_frequency"`
	Category      Category           `validate:"required,subscription_category"`
	PaymentMethod string             `validate:"required"`
	Status        SubscriptionStatus `validate:"required,subscription_status"`
	StartDate     time.Time          `validate:"required"`
	RenewalDate   *time.Time         // nil until derived
	UserId        uuid.UUID          `validate:"required"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
