package handlers

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/ytakahashi/todo-api/internal/auth"
	"github.com/ytakahashi/todo-api/internal/services"

	_ "github.com/ytakahashi/todo-api/docs"
)

// NewRouter wires middleware and every route onto a new echo instance.
func NewRouter(store services.ItemStore, issuer *auth.Issuer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Location headers point at /Items/{id}; route them to /items.
	e.Pre(middleware.RewriteWithConfig(middleware.RewriteConfig{
		RegexRules: map[*regexp.Regexp]string{
			regexp.MustCompile(`(?i)^/items([/?].*)?$`): "/items$1",
		},
	}))

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	e.GET("/", Greeting)
	e.GET("/health", NewHealthHandler(store).Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	itemHandler := NewItemHandler(store)
	items := e.Group("/items", auth.Middleware(issuer))
	items.GET("", itemHandler.ListItems)
	items.POST("", itemHandler.CreateItem)
	items.GET("/:id", itemHandler.GetItem)
	items.PUT("/:id", itemHandler.UpdateItem)
	items.DELETE("/:id", itemHandler.DeleteItem)

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event = event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID)
			if sub := auth.RequestSubject(c); sub != "" {
				event = event.Str("subject", sub)
			}
			event.Msg("http_request")
			return nil
		},
	})
}
