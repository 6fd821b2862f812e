package server

import (
	"time"

	"subscription-tracker-be/internal/bootstrap"
	"subscription-tracker-be/internal/config"
	"subscription-tracker-be/internal/pkg/serverutils"
	"subscription-tracker-be/pkg/admission"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(newFiberConfig(cfg, container))

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	// Operational endpoints stay outside admission control
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{"time": time.Now().UTC()}))
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(container.MetricsRegistry, promhttp.HandlerOpts{})))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// newFiberConfig only honours the proxy header when the peer is a trusted proxy, and
// then takes the first valid IP from it, so clients cannot pick their own bucket key.
func newFiberConfig(cfg *config.Config, container *bootstrap.Container) fiber.Config {
	fc := fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ErrorHandler: serverutils.ErrorHandlerMiddleware(container.Logger),
	}
	if cfg.App.ProxyHeader != "" {
		fc.ProxyHeader = cfg.App.ProxyHeader
		fc.EnableIPValidation = true
		fc.EnableTrustedProxyCheck = true
		fc.TrustedProxies = cfg.App.TrustedProxies
	}
	return fc
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("BOOT", "Server is running", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api", admission.Middleware(c.Admission))

	c.UserController.RegisterRoutes(api)
	c.SubscriptionController.RegisterRoutes(api)
}
