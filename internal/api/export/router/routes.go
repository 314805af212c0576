// Package router đăng ký các route thuộc domain export.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	exporthdl "nexus_crm/internal/api/export/handler"
	"nexus_crm/internal/api/middleware"
	apirouter "nexus_crm/internal/api/router"
)

// Register đăng ký tất cả route export lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	exportHandler, err := exporthdl.NewExportHandler()
	if err != nil {
		return fmt.Errorf("failed to create export handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/export", "GET", "/customers/pdf", []fiber.Handler{authOnlyMiddleware}, exportHandler.HandleCustomersPDF)
	apirouter.RegisterRouteWithMiddleware(v1, "/export", "GET", "/tasks/pdf", []fiber.Handler{authOnlyMiddleware}, exportHandler.HandleTasksPDF)
	apirouter.RegisterRouteWithMiddleware(v1, "/export", "GET", "/interactions/pdf", []fiber.Handler{authOnlyMiddleware}, exportHandler.HandleInteractionsPDF)
	apirouter.RegisterRouteWithMiddleware(v1, "/export", "GET", "/customers/csv", []fiber.Handler{authOnlyMiddleware}, exportHandler.HandleCustomersCSV)
	apirouter.RegisterRouteWithMiddleware(v1, "/export", "GET", "/tasks/csv", []fiber.Handler{authOnlyMiddleware}, exportHandler.HandleTasksCSV)
	return nil
}
