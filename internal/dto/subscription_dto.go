package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSubscriptionRequest struct {
	Name          string     `json:"name" validate:"required,max=100"`
	Price         *float64   `json:"price" validate:"required,gte=0,lte=9999999999.99"`
	Currency      string     `json:"currency" validate:"omitempty,subscription_currency"`
	Frequency     string     `json:"frequency" validate:"omitempty,subscription_frequency"`
	Category      string     `json:"category" validate:"required,subscription_category"`
	PaymentMethod string     `json:"paymentMethod" validate:"required"`
	Status        string     `json:"status" validate:"omitempty,subscription_status"`
	StartDate     *Date      `json:"startDate" validate:"required"`
	RenewalDate   *Date      `json:"renewalDate"`
	UserId        uuid.UUID  `json:"user" validate:"required"`
}

// UpdateSubscriptionRequest only touches the fields that are present.
type UpdateSubscriptionRequest struct {
	Id            uuid.UUID  `json:"-"`
	Name          *string    `json:"name" validate:"omitempty,max=100"`
	Price         *float64   `json:"price" validate:"omitempty,gte=0,lte=9999999999.99"`
	Currency      *string    `json:"currency" validate:"omitempty,subscription_currency"`
	Frequency     *string    `json:"frequency" validate:"omitempty,subscription_frequency"`
	Category      *string    `json:"category" validate:"omitempty,subscription_category"`
	PaymentMethod *string    `json:"paymentMethod"`
	Status        *string    `json:"status" validate:"omitempty,subscription_status"`
	StartDate     *Date      `json:"startDate"`
	RenewalDate   *Date      `json:"renewalDate"`
}

type ListSubscriptionsQuery struct {
	Status   string `query:"status" validate:"omitempty,subscription_status"`
	Category string `query:"category" validate:"omitempty,subscription_category"`
	SortBy   string `query:"sort_by" validate:"omitempty,oneof=created_at start_date renewal_date price name"`
	Desc     bool   `query:"desc"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

type UpcomingRenewalsQuery struct {
	Days int `query:"days" validate:"omitempty,min=1,max=365"`
}

type SubscriptionResponse struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Frequency     string    `json:"frequency"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"startDate"`
	RenewalDate   time.Time `json:"renewalDate"`
	UserId        uuid.UUID `json:"user"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
