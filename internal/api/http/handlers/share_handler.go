package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/dto"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/service"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// ShareHandler exposes share-link issuance, revocation, and the
// unauthenticated read endpoint.
type ShareHandler struct {
	shares   *service.ShareService
	timeline *service.TimelineService
}

// NewShareHandler constructs handler.
func NewShareHandler(shares *service.ShareService, timeline *service.TimelineService) *ShareHandler {
	return &ShareHandler{shares: shares, timeline: timeline}
}

// Issue POST /tickets/:id/share-links.
func (h *ShareHandler) Issue(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateShareLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	link, err := h.shares.Issue(c.Context(), *actor, c.Params("id"), req.TTLDays, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ShareLinkResponse{
		Token:            link.Token,
		TicketID:         link.TicketID,
		ExpiresAt:        link.ExpiresAt,
		PasswordRequired: link.RequiresPassword(),
		IssuedAt:         link.IssuedAt,
	}})
}

// Revoke DELETE /share-links/:token.
func (h *ShareHandler) Revoke(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.shares.Revoke(c.Context(), *actor, c.Params("token")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Read GET /share/:token. Unauthenticated: the token is the capability. The
// timeline is produced through a synthetic client-role actor, so private
// comments can never leak through a share link. Expired and unknown tokens
// render the same response.
func (h *ShareHandler) Read(c *fiber.Ctx) error {
	token := c.Params("token")
	password := c.Query("password")
	if password == "" {
		password = c.Get("X-Share-Password")
	}

	link, err := h.shares.ValidateLink(c.Context(), token, password)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeExpired) {
			return apperrors.NewNotFound("share link")
		}
		return err
	}

	viewer := domain.Actor{
		ID:        "share:" + link.TicketID,
		Role:      domain.RoleClientUser,
		CompanyID: link.CompanyID,
	}
	entries, err := h.timeline.VisibleTimeline(c.Context(), viewer, link.TicketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimelineResponse(entries)})
}
