package api

import (
	"agent-kb/docs"
	"agent-kb/internal/api/handlers"
	"agent-kb/pkg/auth"
	"agent-kb/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Knowledge  *handlers.KnowledgeHandler
	Health     *handlers.HealthHandler
	JWTManager *auth.JWTManager
	Fiber      fiber.Config
	// AccessLog toggles fiber's request logger; tests turn it off.
	AccessLog bool
}

func SetupRouter(cfg RouterConfig, appLogger *zap.Logger) *fiber.App {
	fiberConfig := cfg.Fiber
	fiberConfig.ErrorHandler = func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	app := fiber.New(fiberConfig)

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	if cfg.AccessLog {
		app.Use(logger.New())
	}

	_ = docs.SwaggerInfo // registers the spec with swag
	app.Get("/swagger/*", swagger.HandlerDefault)

	if cfg.Health != nil {
		app.Get("/health", cfg.Health.Health)
	}

	protected := app.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTManager, appLogger))

	knowledge := protected.Group("/knowledge-base")
	knowledge.Get("", cfg.Knowledge.GetKnowledgeBase)
	knowledge.Put("", cfg.Knowledge.SaveKnowledgeBase)
	knowledge.Post("", cfg.Knowledge.SaveKnowledgeBase)
	knowledge.Get("/compiled", cfg.Knowledge.GetCompiledText)

	return app
}
