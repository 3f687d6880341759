package server

import (
	"catalog/internal/handler"
	"catalog/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Health     *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, gatherer prometheus.Gatherer) {
	h.Products.RegisterRoutes(e, middleware.WriteGuard(jwtSecret)...)
	h.Categories.RegisterRoutes(e)
	h.Health.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
