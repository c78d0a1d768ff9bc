package server

import (
	"log"

	"tutorly-be/internal/bootstrap"
	"tutorly-be/internal/config"
	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/pkg/mailer"
	"tutorly-be/internal/pkg/serverutils"
	"tutorly-be/internal/service"
	"tutorly-be/pkg/content"
	"tutorly-be/pkg/session"
	"tutorly-be/pkg/sketch"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

// ErrorMappings lists the domain sentinels the HTTP layer knows about.
func ErrorMappings() []serverutils.ErrorMapping {
	return []serverutils.ErrorMapping{
		// 404
		{Err: service.ErrRoomNotFound, Code: fiber.StatusNotFound},
		{Err: service.ErrNotesNotReady, Code: fiber.StatusNotFound},
		{Err: service.ErrReportNotFound, Code: fiber.StatusNotFound},
		{Err: content.ErrPageNotFound, Code: fiber.StatusNotFound},
		{Err: logger.ErrLogNotFound, Code: fiber.StatusNotFound},

		// 409
		{Err: session.ErrInvalidTransition, Code: fiber.StatusConflict},
		{Err: session.ErrNotConnected, Code: fiber.StatusConflict},

		// 400
		{Err: session.ErrEmptyMessage, Code: fiber.StatusBadRequest},
		{Err: session.ErrUnknownSubject, Code: fiber.StatusBadRequest},
		{Err: session.ErrInvalidImage, Code: fiber.StatusBadRequest},
		{Err: sketch.ErrUnknownTool, Code: fiber.StatusBadRequest},
		{Err: service.ErrUnknownAction, Code: fiber.StatusBadRequest},

		// 410
		{Err: session.ErrClosed, Code: fiber.StatusGone},

		// 503
		{Err: mailer.ErrMailerDisabled, Code: fiber.StatusServiceUnavailable},
	}
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, captured images arrive as data URIs
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(ErrorMappings()...))

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.ContentController.RegisterRoutes(api)
	c.WaitlistController.RegisterRoutes(api)

	c.SessionHandler.RegisterRoutes(api)
	c.DemoController.RegisterRoutes(api)

	c.AdminController.RegisterRoutes(api)
}
