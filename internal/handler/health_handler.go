package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/help-wanted/internal/service"
)

type HealthHandler struct {
	svc       service.IssueService
	historyDB *mongo.Client
}

// NewHealthHandler reports on svc and, when configured, the history database.
// historyDB may be nil.
func NewHealthHandler(svc service.IssueService, historyDB *mongo.Client) *HealthHandler {
	return &HealthHandler{
		svc:       svc,
		historyDB: historyDB,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	status := h.svc.Status(c.UserContext())

	resp := fiber.Map{
		"status": "ok",
		"issues": status.Issues,
		"dbs": fiber.Map{
			"history": h.checkDB(c.UserContext(), h.historyDB),
		},
	}
	if status.LastRun != nil {
		resp["last_refresh"] = status.LastRun
	}
	return c.JSON(resp)
}

func (h *HealthHandler) checkDB(ctx context.Context, client *mongo.Client) string {
	if client == nil {
		return "not_configured"
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return "error"
	}
	return "connected"
}
