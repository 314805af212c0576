// Package router đăng ký các route thuộc domain insight.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	insighthdl "nexus_crm/internal/api/insight/handler"
	"nexus_crm/internal/api/middleware"
	apirouter "nexus_crm/internal/api/router"
)

// Register đăng ký tất cả route insight lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	insightHandler, err := insighthdl.NewInsightHandler()
	if err != nil {
		return fmt.Errorf("failed to create insight handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/insights", "GET", "/customers/:id/lead-score", []fiber.Handler{authOnlyMiddleware}, insightHandler.HandleLeadScore)
	apirouter.RegisterRouteWithMiddleware(v1, "/insights", "GET", "/customers/:id/churn-risk", []fiber.Handler{authOnlyMiddleware}, insightHandler.HandleChurnRisk)
	apirouter.RegisterRouteWithMiddleware(v1, "/insights", "POST", "/sentiment", []fiber.Handler{authOnlyMiddleware}, insightHandler.HandleSentiment)
	apirouter.RegisterRouteWithMiddleware(v1, "/insights", "POST", "/chatbot", []fiber.Handler{authOnlyMiddleware}, insightHandler.HandleChatbot)
	apirouter.RegisterRouteWithMiddleware(v1, "/insights", "POST", "/email-response", []fiber.Handler{authOnlyMiddleware}, insightHandler.HandleEmailResponse)
	return nil
}
