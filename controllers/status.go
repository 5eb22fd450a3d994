package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xrpscan/burnwatch/engine"
)

// StatusProvider is implemented by *engine.Engine.
type StatusProvider interface {
	Status() engine.Status
}

func GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "burnwatch",
	})
}

func GetStatus(provider StatusProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, provider.Status())
	}
}
