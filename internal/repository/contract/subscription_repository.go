package contract

import (
	"context"

	"subscription-tracker-be/internal/entity"
	"subscription-tracker-be/internal/repository/specification"

	"github.com/google/uuid"
)

// SubscriptionRepository persists subscriptions. Create and Update apply defaults,
// validate the record and run the lifecycle step before writing.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
