package handlers

import (
	"errors"
	"strconv"

	"smartdry/internal/app"
	cycleController "smartdry/internal/controllers/cycles"
	userController "smartdry/internal/controllers/users"
	"smartdry/internal/handlers/middleware"
	"smartdry/internal/logger"
	"smartdry/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type CycleHandler struct {
	Handler
	cycleController cycleController.CycleControllerInterface
	userController  userController.UserControllerInterface
}

func NewCycleHandler(app app.App, router fiber.Router) *CycleHandler {
	log := logger.New("handlers").File("cycle_handler")
	return &CycleHandler{
		cycleController: app.Controllers.Cycle,
		userController:  app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CycleHandler) Register() {
	cycles := h.router.Group("/cycles")
	auth := h.middleware.RequireAuth(h.userController)

	cycles.Post("", auth, h.startCycle)
	cycles.Get("", auth, h.listCycles)
	cycles.Get("/:id", auth, h.getCycle)
	cycles.Get("/:id/progress", auth, h.getProgress)

	// Device-originated progress reports authenticate at the broker or
	// gateway, not with a user token.
	h.router.Put("/devices/:deviceId/cycles/:cycleId/progress", h.reportProgress)
}

func (h *CycleHandler) startCycle(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req cycleController.StartCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cycle, err := h.cycleController.Start(c.UserContext(), user, &req)
	if err != nil {
		return h.cycleError(c, err, "Failed to start cycle")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cycle": cycle})
}

func (h *CycleHandler) listCycles(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	filter := repositories.CycleFilter{
		DeviceID: c.Query("deviceId"),
		Status:   c.Query("status"),
		Limit:    c.QueryInt("limit"),
	}

	cycles, err := h.cycleController.List(c.UserContext(), user, filter)
	if err != nil {
		return h.cycleError(c, err, "Failed to list cycles")
	}

	return c.JSON(fiber.Map{"cycles": cycles})
}

func (h *CycleHandler) getCycle(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	cycleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	cycle, err := h.cycleController.Get(c.UserContext(), user, cycleID)
	if err != nil {
		return h.cycleError(c, err, "Failed to get cycle")
	}

	return c.JSON(fiber.Map{"cycle": cycle})
}

func (h *CycleHandler) getProgress(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	cycleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	progress, err := h.cycleController.GetProgress(c.UserContext(), user, cycleID)
	if err != nil {
		return h.cycleError(c, err, "Failed to get cycle progress")
	}

	return c.JSON(progress)
}

func (h *CycleHandler) reportProgress(c *fiber.Ctx) error {
	cycleID, err := strconv.Atoi(c.Params("cycleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	var req cycleController.UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	progress, err := h.cycleController.UpdateProgress(
		c.UserContext(),
		c.Params("deviceId"),
		cycleID,
		&req,
	)
	if err != nil {
		return h.cycleError(c, err, "Failed to record cycle progress")
	}

	return c.JSON(progress)
}

func (h *CycleHandler) cycleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, cycleController.ErrInvalidInput),
		errors.Is(err, cycleController.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, cycleController.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, cycleController.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
