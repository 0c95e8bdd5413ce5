package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/help-wanted/internal/service"
)

// RegisterRoutes mounts every endpoint on app. historyDB may be nil.
func RegisterRoutes(app *fiber.App, issueSvc service.IssueService, historyDB *mongo.Client) {
	NewIssueHandler(issueSvc).Register(app)
	NewHealthHandler(issueSvc, historyDB).Register(app)
}
