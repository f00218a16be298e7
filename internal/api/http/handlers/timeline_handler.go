package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/dto"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/service"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// TimelineHandler exposes the merged activity view and comment appends.
type TimelineHandler struct {
	timeline *service.TimelineService
	comments *service.CommentService
}

// NewTimelineHandler constructs handler.
func NewTimelineHandler(timeline *service.TimelineService, comments *service.CommentService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline, comments: comments}
}

// GetTimeline GET /tickets/:id/timeline.
func (h *TimelineHandler) GetTimeline(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.timeline.VisibleTimeline(c.Context(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimelineResponse(entries)})
}

// AddComment POST /tickets/:id/comments.
func (h *TimelineHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	comment, err := h.comments.Append(c.Context(), *actor, c.Params("id"), req.Body, req.IsPrivate)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}
