package handlers

import (
	"errors"

	"smartdry/internal/app"
	sensorController "smartdry/internal/controllers/sensors"
	userController "smartdry/internal/controllers/users"
	"smartdry/internal/handlers/middleware"
	"smartdry/internal/logger"
	"smartdry/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SensorHandler struct {
	Handler
	sensorController sensorController.SensorControllerInterface
	userController   userController.UserControllerInterface
}

func NewSensorHandler(app app.App, router fiber.Router) *SensorHandler {
	log := logger.New("handlers").File("sensor_handler")
	return &SensorHandler{
		sensorController: app.Controllers.Sensor,
		userController:   app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SensorHandler) Register() {
	auth := h.middleware.RequireAuth(h.userController)

	// Ingest is device-originated and carries no user token.
	h.router.Post("/devices/:deviceId/sensors", h.ingestReading)
	h.router.Get("/devices/:deviceId/sensors", auth, h.listReadings)
	h.router.Get("/devices/:deviceId/prediction", auth, h.predictDryingTime)
}

func (h *SensorHandler) ingestReading(c *fiber.Ctx) error {
	var data models.ReadingData
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reading, err := h.sensorController.Ingest(c.UserContext(), c.Params("deviceId"), data)
	if err != nil {
		return h.sensorError(c, err, "Failed to ingest reading")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reading": reading})
}

func (h *SensorHandler) listReadings(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	readings, err := h.sensorController.List(
		c.UserContext(),
		user,
		c.Params("deviceId"),
		c.QueryInt("limit"),
	)
	if err != nil {
		return h.sensorError(c, err, "Failed to list readings")
	}

	return c.JSON(fiber.Map{"readings": readings})
}

func (h *SensorHandler) predictDryingTime(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	prediction, err := h.sensorController.Predict(c.UserContext(), user, c.Params("deviceId"))
	if err != nil {
		return h.sensorError(c, err, "Failed to generate prediction")
	}

	return c.JSON(fiber.Map{"prediction": prediction})
}

func (h *SensorHandler) sensorError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, sensorController.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, sensorController.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, sensorController.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
