package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"subscription-tracker-be/internal/config"
	"subscription-tracker-be/internal/controller"
	"subscription-tracker-be/internal/metrics"
	"subscription-tracker-be/internal/pkg/logger"
	"subscription-tracker-be/internal/repository/unitofwork"
	"subscription-tracker-be/internal/service"
	"subscription-tracker-be/pkg/admission"
	"subscription-tracker-be/pkg/subscription"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SubscriptionController controller.ISubscriptionController
	UserController         controller.IUserController

	// Infrastructure
	Admission       *admission.Engine
	MetricsRegistry *prometheus.Registry
	Logger          logger.ILogger

	redis           *redis.Client
	admissionLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	// 1. Core facades
	schema := subscription.NewSchema()
	uowFactory := unitofwork.NewRepositoryFactory(db, schema)
	registry := metrics.NewRegistry()

	// 2. Admission control, decisions go to their own file when a path is configured
	admissionLogger := sysLogger
	if cfg.App.AdmissionLogPath != "" {
		admissionLogger = logger.NewIsolatedLogger(cfg.App.AdmissionLogPath)
	}
	store, rdb, err := newBucketStore(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	engine, err := newAdmissionEngine(cfg.Admission, store, sysLogger, admissionLogger, metrics.NewAdmissionMetrics(registry))
	if err != nil {
		return nil, err
	}

	// 3. Services
	subscriptionService := service.NewSubscriptionService(uowFactory, sysLogger, metrics.NewSubscriptionMetrics(registry), schema.Now)
	userService := service.NewUserService(uowFactory, sysLogger)

	// 4. Controllers
	return &Container{
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
		UserController:         controller.NewUserController(userService, subscriptionService),

		Admission:       engine,
		MetricsRegistry: registry,
		Logger:          sysLogger,

		redis:           rdb,
		admissionLogger: admissionLogger,
	}, nil
}

// Close releases connections opened by the container.
func (c *Container) Close() error {
	if c.admissionLogger != nil && c.admissionLogger != c.Logger {
		_ = c.admissionLogger.Sync()
	}
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

func newBucketStore(cfg *config.Config, sysLogger logger.ILogger) (admission.BucketStore, *redis.Client, error) {
	switch cfg.Admission.Store {
	case "memory", "":
		return admission.NewMemoryStore(time.Minute), nil, nil
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOT", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("BOOT", "Failed to connect to Redis, rate limiting fails open until it is reachable", map[string]interface{}{"error": err.Error()})
		}
		return admission.NewRedisStore(rdb, "admission:bucket:"), rdb, nil
	default:
		return nil, nil, fmt.Errorf("unknown admission store %q", cfg.Admission.Store)
	}
}

func newAdmissionEngine(cfg config.AdmissionConfig, store admission.BucketStore, sysLogger, decisionLogger logger.ILogger, observer admission.Observer) (*admission.Engine, error) {
	mode := admission.ParseMode(cfg.Mode)

	allowed := make([]admission.BotCategory, 0, len(cfg.AllowBotCategories))
	for _, c := range cfg.AllowBotCategories {
		allowed = append(allowed, admission.BotCategory(strings.TrimSpace(c)))
	}

	bucket, err := admission.NewTokenBucketRule(mode, admission.BucketConfig{
		Capacity:   cfg.Capacity,
		RefillRate: cfg.RefillRate,
		Interval:   cfg.Interval,
	}, store)
	if err != nil {
		return nil, err
	}

	sysLogger.Info("BOOT", "Admission control configured", map[string]interface{}{
		"mode":        mode,
		"store":       cfg.Store,
		"capacity":    cfg.Capacity,
		"refill_rate": cfg.RefillRate,
		"interval":    cfg.Interval.String(),
		"allow_bots":  cfg.AllowBotCategories,
	})

	return admission.NewEngine(decisionLogger, observer,
		admission.NewShieldRule(mode),
		admission.NewBotRule(mode, allowed...),
		bucket,
	), nil
}
