package mapper

import (
	"time"

	"subscription-tracker-be/internal/entity"
	"subscription-tracker-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	var renewal *time.Time
	if !s.RenewalDate.IsZero() {
		r := s.RenewalDate
		renewal = &r
	}
	return &entity.Subscription{
		Id:            s.Id,
		Name:          s.Name,
		Price:         s.Price,
		Currency:      entity.Currency(s.Currency),
		Frequency:     entity.Frequency(s.Frequency),
		Category:      entity.Category(s.Category),
		PaymentMethod: s.PaymentMethod,
		Status:        entity.SubscriptionStatus(s.Status),
		StartDate:     s.StartDate,
		RenewalDate:   renewal,
		UserId:        s.UserId,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToModel expects a subscription that already went through PrepareForSave.
func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	var renewal time.Time
	if s.RenewalDate != nil {
		renewal = *s.RenewalDate
	}
	return &model.Subscription{
		Id:            s.Id,
		Name:          s.Name,
		Price:         s.Price,
		Currency:      string(s.Currency),
		Frequency:     string(s.Frequency),
		Category:      string(s.Category),
		PaymentMethod: s.PaymentMethod,
		Status:        string(s.Status),
		StartDate:     s.StartDate,
		RenewalDate:   renewal,
		UserId:        s.UserId,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
