package handlers

import (
	"smartdry/internal/app"
	"smartdry/internal/handlers/middleware"
	"smartdry/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewDeviceHandler(*app, api).Register()
	NewCycleHandler(*app, api).Register()
	NewSensorHandler(*app, api).Register()
	NewNotificationHandler(*app, api).Register()

	return nil
}
