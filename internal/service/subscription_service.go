package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subscription-tracker-be/internal/dto"
	"subscription-tracker-be/internal/entity"
	"subscription-tracker-be/internal/metrics"
	"subscription-tracker-be/internal/pkg/logger"
	"subscription-tracker-be/internal/repository/specification"
	"subscription-tracker-be/internal/repository/unitofwork"
	"subscription-tracker-be/pkg/subscription"

	"github.com/google/uuid"
)

const subscriptionModule = "SUBSCRIPTION"

const (
	defaultListLimit    = 50
	defaultUpcomingDays = 7
)

type ISubscriptionService interface {
	Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Update(ctx context.Context, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userId uuid.UUID, query dto.ListSubscriptionsQuery) ([]*dto.SubscriptionResponse, error)
	UpcomingRenewals(ctx context.Context, userId uuid.UUID, days int) ([]*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	metrics    metrics.SubscriptionMetrics
	now        func() time.Time
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, m metrics.SubscriptionMetrics, now func() time.Time) ISubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &subscriptionService{
		uowFactory: uowFactory,
		logger:     log,
		metrics:    m,
		now:        now,
	}
}

func (s *subscriptionService) Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	sub := &entity.Subscription{
		Name:          req.Name,
		Currency:      entity.Currency(req.Currency),
		Frequency:     entity.Frequency(req.Frequency),
		Category:      entity.Category(req.Category),
		PaymentMethod: req.PaymentMethod,
		Status:        entity.SubscriptionStatus(req.Status),
		RenewalDate:   req.RenewalDate.TimePtr(),
		UserId:        req.UserId,
	}
	if req.Price != nil {
		sub.Price = *req.Price
	}
	if req.StartDate != nil {
		sub.StartDate = req.StartDate.Time
	}

	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, s.saveFailed("create", sub, err)
	}
	s.saved("create", sub)

	return toSubscriptionResponse(sub), nil
}

func (s *subscriptionService) Show(ctx context.Context, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(sub), nil
}

// Update loads the record, overlays the present fields and saves it inside a
// transaction so the lifecycle step sees the merged record.
func (s *subscriptionService) Update(ctx context.Context, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := s.find(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Price != nil {
		sub.Price = *req.Price
	}
	if req.Currency != nil {
		sub.Currency = entity.Currency(*req.Currency)
	}
	if req.Category != nil {
		sub.Category = entity.Category(*req.Category)
	}
	if req.PaymentMethod != nil {
		sub.PaymentMethod = *req.PaymentMethod
	}
	if req.Status != nil {
		sub.Status = entity.SubscriptionStatus(*req.Status)
	}
	if req.StartDate != nil {
		sub.StartDate = req.StartDate.Time
	}
	if req.Frequency != nil && entity.Frequency(*req.Frequency) != sub.Frequency {
		sub.Frequency = entity.Frequency(*req.Frequency)
		// re-derive for the new billing interval unless a date was sent along
		if req.RenewalDate == nil {
			sub.RenewalDate = nil
		}
	}
	if req.RenewalDate != nil {
		sub.RenewalDate = req.RenewalDate.TimePtr()
	}

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, s.saveFailed("update", sub, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.saved("update", sub)

	return toSubscriptionResponse(sub), nil
}

func (s *subscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	sub.Status = entity.SubscriptionStatusCancelled
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, s.saveFailed("cancel", sub, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.saved("cancel", sub)

	return toSubscriptionResponse(sub), nil
}

func (s *subscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.find(ctx, uow, id); err != nil {
		return err
	}
	if err := uow.SubscriptionRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subscription %s: %w", id, err)
	}

	s.logger.Info(subscriptionModule, "Subscription deleted", map[string]interface{}{"subscription_id": id})
	return nil
}

func (s *subscriptionService) ListByUser(ctx context.Context, userId uuid.UUID, query dto.ListSubscriptionsQuery) ([]*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.ensureUser(ctx, uow, userId); err != nil {
		return nil, err
	}

	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if query.Status != "" {
		specs = append(specs, specification.ByStatus{Status: query.Status})
	}
	if query.Category != "" {
		specs = append(specs, specification.ByCategory{Category: query.Category})
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	specs = append(specs,
		specification.OrderBy{Field: sortBy, Desc: query.Desc},
		specification.Pagination{Limit: limit, Offset: query.Offset},
	)

	subs, err := uow.SubscriptionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponses(subs), nil
}

// UpcomingRenewals lists active subscriptions renewing within the next days.
func (s *subscriptionService) UpcomingRenewals(ctx context.Context, userId uuid.UUID, days int) ([]*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.ensureUser(ctx, uow, userId); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultUpcomingDays
	}

	now := s.now()
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: string(entity.SubscriptionStatusActive)},
		specification.RenewalBetween{From: now, To: now.AddDate(0, 0, days)},
		specification.OrderBy{Field: "renewal_date"},
	)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponses(subs), nil
}

func (s *subscriptionService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *subscriptionService) ensureUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	count, err := uow.UserRepository().Count(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *subscriptionService) saved(operation string, sub *entity.Subscription) {
	s.metrics.IncSaved(operation, string(sub.Status))
	if sub.Status == entity.SubscriptionStatusExpired {
		s.metrics.IncExpired(operation)
	}
	s.logger.Info(subscriptionModule, "Subscription saved", map[string]interface{}{
		"operation":       operation,
		"subscription_id": sub.Id,
		"status":          sub.Status,
		"renewal_date":    sub.RenewalDate,
	})
}

func (s *subscriptionService) saveFailed(operation string, sub *entity.Subscription, err error) error {
	var verrs subscription.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		s.metrics.IncRejected(operation, "validation")
		s.logger.Debug(subscriptionModule, "Subscription rejected", map[string]interface{}{
			"operation": operation,
			"fields":    verrs.Fields(),
		})
		return err
	case errors.Is(err, subscription.ErrUnknownFrequency):
		s.metrics.IncRejected(operation, "unknown_frequency")
		s.logger.Error(subscriptionModule, "Renewal date could not be derived", map[string]interface{}{
			"operation": operation,
			"frequency": sub.Frequency,
			"error":     err,
		})
		return err
	}
	return fmt.Errorf("%s subscription: %w", operation, err)
}

func toSubscriptionResponse(sub *entity.Subscription) *dto.SubscriptionResponse {
	res := &dto.SubscriptionResponse{
		Id:            sub.Id,
		Name:          sub.Name,
		Price:         sub.Price,
		Currency:      string(sub.Currency),
		Frequency:     string(sub.Frequency),
		Category:      string(sub.Category),
		PaymentMethod: sub.PaymentMethod,
		Status:        string(sub.Status),
		StartDate:     sub.StartDate,
		UserId:        sub.UserId,
		CreatedAt:     sub.CreatedAt,
		UpdatedAt:     sub.UpdatedAt,
	}
	if sub.RenewalDate != nil {
		res.RenewalDate = *sub.RenewalDate
	}
	return res
}

func toSubscriptionResponses(subs []*entity.Subscription) []*dto.SubscriptionResponse {
	res := make([]*dto.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, toSubscriptionResponse(sub))
	}
	return res
}
