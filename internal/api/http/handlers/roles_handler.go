package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// RolesHandler exposes the role capability table so UI collaborators can
// decide which controls to render. Advisory only: every operation is
// re-authorized server-side regardless of what the UI shows.
type RolesHandler struct{}

// NewRolesHandler constructs handler.
func NewRolesHandler() *RolesHandler {
	return &RolesHandler{}
}

// Capabilities GET /roles/:role/capabilities.
func (h *RolesHandler) Capabilities(c *fiber.Ctx) error {
	role := domain.RoleTag(strings.ToUpper(c.Params("role")))
	if !domain.KnownRole(role) {
		return apperrors.NewNotFound("role")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"role":         role,
		"capabilities": domain.CapabilitiesForRole(role),
	}})
}
