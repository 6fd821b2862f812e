package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"subscription-tracker-be/internal/entity"
	"subscription-tracker-be/internal/repository/contract"
	"subscription-tracker-be/internal/repository/specification"
	"subscription-tracker-be/internal/repository/unitofwork"
	"subscription-tracker-be/pkg/subscription"

	"github.com/google/uuid"
)

// store is an in-memory stand-in for the database. The subscription side runs the
// same save pipeline as the gorm repository.
type store struct {
	mu            sync.Mutex
	schema        *subscription.Schema
	users         map[uuid.UUID]entity.User
	subscriptions map[uuid.UUID]entity.Subscription
	commits       int
}

func newStore(now time.Time) *store {
	return &store{
		schema:        subscription.NewSchema(subscription.WithClock(func() time.Time { return now })),
		users:         map[uuid.UUID]entity.User{},
		subscriptions: map[uuid.UUID]entity.Subscription{},
	}
}

func (s *store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

type fakeUnitOfWork struct {
	store *store
	inTx  bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return unitofwork.ErrTransactionStarted
	}
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if !u.inTx {
		return unitofwork.ErrNoTransaction
	}
	u.inTx = false
	u.store.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if !u.inTx {
		return unitofwork.ErrNoTransaction
	}
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepository{store: u.store}
}

func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepository{store: u.store}
}

type fakeUserRepository struct {
	store *store
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	user.CreatedAt = r.store.schema.Now()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.Id] = *user
	return nil
}

func (r *fakeUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			n++
		}
	}
	return n, nil
}

func matchUser(u entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		}
	}
	return true
}

type fakeSubscriptionRepository struct {
	store *store
}

func (r *fakeSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if sub.Id == uuid.Nil {
		sub.Id = uuid.New()
	}
	if err := r.store.schema.Prepare(sub, true); err != nil {
		return err
	}
	sub.CreatedAt = r.store.schema.Now()
	sub.UpdatedAt = sub.CreatedAt
	r.store.subscriptions[sub.Id] = cloneSubscription(sub)
	return nil
}

func (r *fakeSubscriptionRepository) Update(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current := r.store.subscriptions[sub.Id]
	if err := r.store.schema.Prepare(sub, !current.StartDate.Equal(sub.StartDate)); err != nil {
		return err
	}
	sub.UpdatedAt = r.store.schema.Now()
	r.store.subscriptions[sub.Id] = cloneSubscription(sub)
	return nil
}

func (r *fakeSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.subscriptions, id)
	return nil
}

func (r *fakeSubscriptionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	found, _ := r.FindAll(ctx, specs...)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *fakeSubscriptionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Subscription
	for _, sub := range r.store.subscriptions {
		if matchSubscription(sub, specs) {
			c := cloneSubscription(&sub)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RenewalDate.Before(*out[j].RenewalDate) })

	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil, nil
			}
			out = out[p.Offset:]
			if p.Limit > 0 && p.Limit < len(out) {
				out = out[:p.Limit]
			}
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func matchSubscription(sub entity.Subscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if sub.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if sub.UserId != s.UserID {
				return false
			}
		case specification.ByStatus:
			if string(sub.Status) != s.Status {
				return false
			}
		case specification.ByCategory:
			if string(sub.Category) != s.Category {
				return false
			}
		case specification.RenewalBetween:
			if sub.RenewalDate.Before(s.From) || !sub.RenewalDate.Before(s.To) {
				return false
			}
		}
	}
	return true
}

func cloneSubscription(sub *entity.Subscription) entity.Subscription {
	c := *sub
	if sub.RenewalDate != nil {
		r := *sub.RenewalDate
		c.RenewalDate = &r
	}
	return c
}

type recordingMetrics struct {
	saved    []string
	rejected []string
	expired  []string
}

func (m *recordingMetrics) IncSaved(operation, status string) {
	m.saved = append(m.saved, operation+":"+status)
}

func (m *recordingMetrics) IncRejected(operation, reason string) {
	m.rejected = append(m.rejected, operation+":"+reason)
}

func (m *recordingMetrics) IncExpired(operation string) {
	m.expired = append(m.expired, operation)
}
