package unitofwork

import (
	"context"

	"subscription-tracker-be/pkg/subscription"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db     *gorm.DB
	schema *subscription.Schema
}

// NewRepositoryFactory binds the subscription schema explicitly; every unit of work
// hands it to the subscription repository.
func NewRepositoryFactory(db *gorm.DB, schema *subscription.Schema) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db:     db,
		schema: schema,
	}
}

// NewUnitOfWork is short lived, one per request.
func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db, f.schema)
}
