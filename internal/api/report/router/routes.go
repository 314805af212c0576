// Package router đăng ký các route thuộc domain report (dashboard).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"nexus_crm/internal/api/middleware"
	reporthdl "nexus_crm/internal/api/report/handler"
	apirouter "nexus_crm/internal/api/router"
)

// Register đăng ký tất cả route dashboard lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	dashboardHandler, err := reporthdl.NewDashboardHandler()
	if err != nil {
		return fmt.Errorf("failed to create dashboard handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/stats", []fiber.Handler{authOnlyMiddleware}, dashboardHandler.HandleStats)
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/activity", []fiber.Handler{authOnlyMiddleware}, dashboardHandler.HandleActivity)
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/charts", []fiber.Handler{authOnlyMiddleware}, dashboardHandler.HandleCharts)
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/conversion", []fiber.Handler{authOnlyMiddleware}, dashboardHandler.HandleConversion)
	return nil
}
