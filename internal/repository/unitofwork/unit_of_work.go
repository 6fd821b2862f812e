package unitofwork

import (
	"context"

	"subscription-tracker-be/internal/repository/contract"
)

// RepositoryFactory hands out one UnitOfWork per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// UnitOfWork groups the repositories over one connection. Between Begin and
// Commit/Rollback they share a transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
}
