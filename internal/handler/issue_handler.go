package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/help-wanted/internal/issues"
	"github.com/ahmednasr/help-wanted/internal/models"
	"github.com/ahmednasr/help-wanted/internal/service"
)

// IssueHandler wires HTTP → IssueService.
type IssueHandler struct {
	svc service.IssueService
}

// NewIssueHandler returns a handler instance.
func NewIssueHandler(svc service.IssueService) *IssueHandler {
	return &IssueHandler{svc: svc}
}

// Register mounts GET /github-issues on the given router.
func (h *IssueHandler) Register(r fiber.Router) {
	r.Get("/github-issues", h.list)
}

// list handles GET /github-issues?category=core
func (h *IssueHandler) list(c *fiber.Ctx) error {
	var q models.IssueQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	doc := h.svc.Lookup(issues.Query{Category: q.Category})
	return c.JSON(doc)
}
