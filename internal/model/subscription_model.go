package model

import (
	"time"

	"github.com/google/uuid"
)

// Enum column types are created by cmd/migrate before AutoMigrate runs.
type Subscription struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Price         float64   `gorm:"type:decimal(12,2);not null"`
	Currency      string    `gorm:"type:subscription_currency;not null;default:'BRL'"`
	Frequency     string    `gorm:"type:subscription_frequency;not null;default:'monthly'"`
	Category      string    `gorm:"type:subscription_category;not null"`
	PaymentMethod string    `gorm:"type:varchar(255);not null"`
	Status        string    `gorm:"type:subscription_status;not null;default:'active';index"`
	StartDate     time.Time `gorm:"not null"`
	RenewalDate   time.Time `gorm:"not null;index"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	// Relations
	User *User `gorm:"foreignKey:UserId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
