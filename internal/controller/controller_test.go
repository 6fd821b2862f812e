package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"subscription-tracker-be/internal/dto"
	"subscription-tracker-be/internal/pkg/logger"
	"subscription-tracker-be/internal/pkg/serverutils"
	"subscription-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubscriptionService struct {
	created   *dto.CreateSubscriptionRequest
	updated   *dto.UpdateSubscriptionRequest
	listQuery dto.ListSubscriptionsQuery
	days      int
	err       error
}

func (s *stubSubscriptionService) Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionResponse{Id: uuid.New(), Name: req.Name, Status: "active", UserId: req.UserId}, nil
}

func (s *stubSubscriptionService) Show(ctx context.Context, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionResponse{Id: id}, nil
}

func (s *stubSubscriptionService) Update(ctx context.Context, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	s.updated = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionResponse{Id: req.Id}, nil
}

func (s *stubSubscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionResponse{Id: id, Status: "cancelled"}, nil
}

func (s *stubSubscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubSubscriptionService) ListByUser(ctx context.Context, userId uuid.UUID, query dto.ListSubscriptionsQuery) ([]*dto.SubscriptionResponse, error) {
	s.listQuery = query
	return []*dto.SubscriptionResponse{{UserId: userId}}, s.err
}

func (s *stubSubscriptionService) UpcomingRenewals(ctx context.Context, userId uuid.UUID, days int) ([]*dto.SubscriptionResponse, error) {
	s.days = days
	return []*dto.SubscriptionResponse{}, s.err
}

type stubUserService struct {
	err error
}

func (s *stubUserService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UserResponse{Id: uuid.New(), FullName: req.FullName, Email: req.Email}, nil
}

func (s *stubUserService) Show(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UserResponse{Id: id}, nil
}

func newTestApp(subs service.ISubscriptionService, users service.IUserService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandlerMiddleware(logger.NewNopLogger())})
	api := app.Group("/api")
	NewSubscriptionController(subs).RegisterRoutes(api)
	NewUserController(users, subs).RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var res serverutils.BaseResponse[json.RawMessage]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return resp, res
}

func TestCreateSubscription(t *testing.T) {
	userId := uuid.New()
	start := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("created", func(t *testing.T) {
		subs := &stubSubscriptionService{}
		app := newTestApp(subs, &stubUserService{})

		body := `{"name":"Netflix","price":39.9,"category":"streaming","paymentMethod":"pix","startDate":"` + start + `","user":"` + userId.String() + `"}`
		resp, res := doJSON(t, app, "POST", "/api/subscription/v1", body)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.True(t, res.Success)
		require.NotNil(t, subs.created)
		assert.Equal(t, userId, subs.created.UserId)
		assert.Equal(t, 39.9, *subs.created.Price)
	})

	t.Run("date-only dates", func(t *testing.T) {
		subs := &stubSubscriptionService{}
		app := newTestApp(subs, &stubUserService{})

		body := `{"name":"Netflix","price":39.9,"category":"streaming","paymentMethod":"pix","startDate":"2024-01-01","renewalDate":"2024-02-01","user":"` + userId.String() + `"}`
		resp, _ := doJSON(t, app, "POST", "/api/subscription/v1", body)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		require.NotNil(t, subs.created)
		assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(subs.created.StartDate.Time))
		assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Equal(subs.created.RenewalDate.Time))
	})

	t.Run("invalid payload lists every field", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, res := doJSON(t, app, "POST", "/api/subscription/v1", `{"name":"Netflix","price":-1,"currency":"JPY"}`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		fields := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			fields = append(fields, e.Field)
		}
		assert.Subset(t, fields, []string{"price", "currency", "category", "paymentMethod", "startDate", "user"})
	})

	t.Run("malformed body", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, res := doJSON(t, app, "POST", "/api/subscription/v1", `{"name":`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid request body", res.Message)
	})
}

func TestSubscriptionByID(t *testing.T) {
	id := uuid.New()

	t.Run("show", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, res := doJSON(t, app, "GET", "/api/subscription/v1/"+id.String(), "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, string(res.Data), id.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, _ := doJSON(t, app, "GET", "/api/subscription/v1/not-a-uuid", "")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{err: service.ErrSubscriptionNotFound}, &stubUserService{})

		resp, _ := doJSON(t, app, "DELETE", "/api/subscription/v1/"+id.String(), "")

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("update takes the id from the path", func(t *testing.T) {
		subs := &stubSubscriptionService{}
		app := newTestApp(subs, &stubUserService{})

		resp, _ := doJSON(t, app, "PUT", "/api/subscription/v1/"+id.String(), `{"name":"Max"}`)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.NotNil(t, subs.updated)
		assert.Equal(t, id, subs.updated.Id)
		assert.Equal(t, "Max", *subs.updated.Name)
	})

	t.Run("cancel", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, res := doJSON(t, app, "PUT", "/api/subscription/v1/"+id.String()+"/cancel", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, string(res.Data), `"cancelled"`)
	})
}

func TestUserRoutes(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, res := doJSON(t, app, "POST", "/api/user/v1", `{"fullName":"Ana","email":"ana@example.com"}`)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "User registered", res.Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{err: service.ErrEmailTaken})

		resp, _ := doJSON(t, app, "POST", "/api/user/v1", `{"fullName":"Ana","email":"ana@example.com"}`)

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("list subscriptions with filters", func(t *testing.T) {
		subs := &stubSubscriptionService{}
		app := newTestApp(subs, &stubUserService{})

		resp, _ := doJSON(t, app, "GET", "/api/user/v1/"+uuid.NewString()+"/subscriptions?status=active&sort_by=price&desc=true&limit=5", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "active", subs.listQuery.Status)
		assert.Equal(t, "price", subs.listQuery.SortBy)
		assert.True(t, subs.listQuery.Desc)
		assert.Equal(t, 5, subs.listQuery.Limit)
	})

	t.Run("unsupported sort column", func(t *testing.T) {
		app := newTestApp(&stubSubscriptionService{}, &stubUserService{})

		resp, _ := doJSON(t, app, "GET", "/api/user/v1/"+uuid.NewString()+"/subscriptions?sort_by=password", "")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("upcoming renewals", func(t *testing.T) {
		subs := &stubSubscriptionService{}
		app := newTestApp(subs, &stubUserService{})

		resp, _ := doJSON(t, app, "GET", "/api/user/v1/"+uuid.NewString()+"/subscriptions/upcoming?days=14", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 14, subs.days)
	})
}
