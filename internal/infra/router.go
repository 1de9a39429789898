package infra

import (
	"errors"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-redis/redis/v9"
	"github.com/hoocms/customers/internal/cache"
	"github.com/hoocms/customers/internal/config"
	"github.com/hoocms/customers/internal/handlers"
	"github.com/hoocms/customers/internal/middleware"
	"github.com/hoocms/customers/internal/repository"
	"github.com/hoocms/customers/internal/service"
	"github.com/hoocms/customers/internal/validation"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

func Router(mongoClient *mongo.Client, redisClient *redis.Client, cfg config.Config) (*echo.Echo, error) {
	e := echo.New()

	// Validation
	enLocale := en.New()
	unvTranslator := ut.New(enLocale, enLocale)
	translator, ok := unvTranslator.GetTranslator("en")
	if !ok {
		return nil, errors.New("failed to build echo validator because of missing en translations")
	}

	v := validator.New()
	if err := entranslations.RegisterDefaultTranslations(v, translator); err != nil {
		return nil, fmt.Errorf("failed to register en translations - %w", err)
	}
	e.Validator = validation.Echo(v, translator)

	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogging())

	// Repositories and cache
	customerRps := repository.NewMongoCustomerRepository(mongoClient, cfg.MongoCfg.Database, cfg.MongoCfg.Collection)
	customerCache := cache.NewRedisCustomerCache(redisClient)

	// Services
	customerSvc := service.NewCustomerService(customerRps, customerCache)

	// Handlers
	healthHandler := handlers.NewHealthHTTPHandler()
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)

	// API routes
	api := e.Group("/api")

	api.GET("/health", healthHandler.Health)

	customersAPI := api.Group("/customers")
	customersAPI.GET("", customerHandler.GetAll)
	customersAPI.GET("/:id", customerHandler.Get)
	customersAPI.POST("", customerHandler.Post)
	customersAPI.PUT("/:id", customerHandler.Put)
	customersAPI.DELETE("/:id", customerHandler.DeleteByID)

	return e, nil
}
