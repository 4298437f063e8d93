package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bistro/internal/services"
)

// UserHandler serves admin user management.
type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router, gate ...fiber.Handler) {
	router.Get("/admin/report/users", guarded(gate, h.HandleList)...)
	router.Get("/users/list", guarded(gate, h.HandleList)...)
	router.Delete("/admin/delete/user/:id", guarded(gate, h.HandleDelete)...)
}

func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ID", err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
