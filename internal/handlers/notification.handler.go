package handlers

import (
	"errors"

	"smartdry/internal/app"
	notificationController "smartdry/internal/controllers/notifications"
	userController "smartdry/internal/controllers/users"
	"smartdry/internal/handlers/middleware"
	"smartdry/internal/logger"
	"smartdry/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	notificationController notificationController.NotificationControllerInterface
	userController         userController.UserControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	log := logger.New("handlers").File("notification_handler")
	return &NotificationHandler{
		notificationController: app.Controllers.Notification,
		userController:         app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications")
	auth := h.middleware.RequireAuth(h.userController)

	notifications.Get("", auth, h.listNotifications)
	notifications.Get("/recent", auth, h.recentNotifications)
	notifications.Post("/read", auth, h.markRead)
	notifications.Post("/read-all", auth, h.markAllRead)
}

func (h *NotificationHandler) listNotifications(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	filter := repositories.NotificationFilter{
		UnreadOnly: c.QueryBool("unread"),
		Limit:      c.QueryInt("limit"),
	}

	notifications, err := h.notificationController.List(c.UserContext(), user, filter)
	if err != nil {
		return h.notificationError(c, err, "Failed to list notifications")
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) recentNotifications(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	notifications, err := h.notificationController.Recent(c.UserContext(), user)
	if err != nil {
		return h.notificationError(c, err, "Failed to get recent notifications")
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req struct {
		IDs []int `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.notificationController.MarkRead(c.UserContext(), user, req.IDs); err != nil {
		return h.notificationError(c, err, "Failed to mark notifications read")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if err := h.notificationController.MarkAllRead(c.UserContext(), user); err != nil {
		return h.notificationError(c, err, "Failed to mark notifications read")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *NotificationHandler) notificationError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, notificationController.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, notificationController.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
