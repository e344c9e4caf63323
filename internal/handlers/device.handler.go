package handlers

import (
	"errors"

	"smartdry/internal/app"
	deviceController "smartdry/internal/controllers/devices"
	userController "smartdry/internal/controllers/users"
	"smartdry/internal/handlers/middleware"
	"smartdry/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type DeviceHandler struct {
	Handler
	deviceController deviceController.DeviceControllerInterface
	userController   userController.UserControllerInterface
}

func NewDeviceHandler(app app.App, router fiber.Router) *DeviceHandler {
	log := logger.New("handlers").File("device_handler")
	return &DeviceHandler{
		deviceController: app.Controllers.Device,
		userController:   app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DeviceHandler) Register() {
	devices := h.router.Group("/devices")
	auth := h.middleware.RequireAuth(h.userController)

	devices.Post("", auth, h.registerDevice)
	devices.Post("/simulator", auth, h.registerSimulatedDevice)
	devices.Get("", auth, h.listDevices)
	devices.Get("/:deviceId", auth, h.getDevice)
	devices.Put("/:deviceId", auth, h.updateDevice)
	devices.Delete("/:deviceId", auth, h.deleteDevice)
}

func (h *DeviceHandler) registerDevice(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req deviceController.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	device, err := h.deviceController.Register(c.UserContext(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, deviceController.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, deviceController.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to register device",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"device": device})
}

func (h *DeviceHandler) registerSimulatedDevice(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req deviceController.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	device, err := h.deviceController.FindOrRegister(c.UserContext(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, deviceController.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, deviceController.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to register device",
			})
		}
	}

	return c.JSON(fiber.Map{"device": device})
}

func (h *DeviceHandler) listDevices(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	devices, err := h.deviceController.List(c.UserContext(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list devices",
		})
	}

	return c.JSON(fiber.Map{"devices": devices})
}

func (h *DeviceHandler) getDevice(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	device, err := h.deviceController.Get(c.UserContext(), user, c.Params("deviceId"))
	if err != nil {
		if errors.Is(err, deviceController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get device",
		})
	}

	return c.JSON(fiber.Map{"device": device})
}

func (h *DeviceHandler) updateDevice(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req deviceController.UpdateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	device, err := h.deviceController.Update(c.UserContext(), user, c.Params("deviceId"), &req)
	if err != nil {
		switch {
		case errors.Is(err, deviceController.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, deviceController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update device",
			})
		}
	}

	return c.JSON(fiber.Map{"device": device})
}

func (h *DeviceHandler) deleteDevice(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if err := h.deviceController.Delete(c.UserContext(), user, c.Params("deviceId")); err != nil {
		if errors.Is(err, deviceController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete device",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
