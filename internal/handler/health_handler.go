package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/prometheus"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Index describes the API
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Corporate Office 101 API",
		"version": prometheus.Version,
		"status":  "running",
	})
}

// MetricsHandler exposes prometheus metrics
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
