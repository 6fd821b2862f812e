package implementation

import (
	"context"
	"errors"
	"fmt"

	"subscription-tracker-be/internal/entity"
	"subscription-tracker-be/internal/mapper"
	"subscription-tracker-be/internal/model"
	"subscription-tracker-be/internal/repository/contract"
	"subscription-tracker-be/internal/repository/specification"
	"subscription-tracker-be/pkg/subscription"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	schema *subscription.Schema
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB, schema *subscription.Schema) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		schema: schema,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.Subscription) error {
	if sub.Id == uuid.Nil {
		sub.Id = uuid.New()
	}
	if err := r.schema.Prepare(sub, true); err != nil {
		return err
	}

	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.Subscription) error {
	// The start date rule only applies when the start date actually changed.
	var current model.Subscription
	if err := r.db.WithContext(ctx).Select("start_date").Where("id = ?", sub.Id).First(&current).Error; err != nil {
		return fmt.Errorf("load subscription %s: %w", sub.Id, err)
	}
	if err := r.schema.Prepare(sub, !current.StartDate.Equal(sub.StartDate)); err != nil {
		return err
	}

	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Subscription{}).Error
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Subscription{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
