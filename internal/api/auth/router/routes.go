// Package router đăng ký các route thuộc domain auth: System, Auth, User management.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "nexus_crm/internal/api/auth/handler"
	models "nexus_crm/internal/api/auth/models"
	basehdl "nexus_crm/internal/api/base/handler"
	"nexus_crm/internal/api/middleware"
	apirouter "nexus_crm/internal/api/router"
)

// Register đăng ký tất cả route auth (system, auth, user management) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1, r); err != nil {
		return err
	}
	if err := registerUserRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	router.Post("/auth/register", userHandler.HandleRegister)
	router.Post("/auth/login", userHandler.HandleLogin)
	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/me", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/me", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/change-password", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleChangePassword)
	return nil
}

func registerUserRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Quản lý user: admin và manager được đọc, chỉ admin được tạo / sửa / xóa
	r.RegisterCRUDRoutes(router, "/user", userHandler, apirouter.ReadOnlyConfig, apirouter.RouteRoles{
		Read: []string{models.RoleAdmin, models.RoleManager},
	})

	adminMiddleware := middleware.AuthMiddleware(models.RoleAdmin)
	apirouter.RegisterRouteWithMiddleware(router, "/user", "POST", "/create", []fiber.Handler{adminMiddleware}, userHandler.HandleCreateUser)
	apirouter.RegisterRouteWithMiddleware(router, "/user", "PUT", "/update-by-id/:id", []fiber.Handler{adminMiddleware}, userHandler.UpdateById)
	apirouter.RegisterRouteWithMiddleware(router, "/user", "DELETE", "/delete-by-id/:id", []fiber.Handler{adminMiddleware}, userHandler.HandleDeleteUser)
	return nil
}
