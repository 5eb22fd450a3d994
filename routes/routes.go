package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/xrpscan/burnwatch/controllers"
)

func Add(e *echo.Echo, provider controllers.StatusProvider) {
	e.GET("/health", controllers.GetHealth)
	e.GET("/status", controllers.GetStatus(provider))
}
