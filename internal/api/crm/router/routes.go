// Package router đăng ký các route thuộc domain CRM: customers, interactions, tasks.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authmodels "nexus_crm/internal/api/auth/models"
	crmhdl "nexus_crm/internal/api/crm/handler"
	"nexus_crm/internal/api/middleware"
	apirouter "nexus_crm/internal/api/router"
)

// crmCRUDConfig như ReadWriteConfig nhưng tắt insert-one / insert-many / upsert:
// tạo mới phải đi qua route /create của domain để áp dụng logic nghiệp vụ
// (khởi tạo statusHistory, cập nhật lastContact, quy tắc completedAt).
var crmCRUDConfig = apirouter.CRUDConfig{
	InsOne: false, InsMany: false,
	Find: true, FindOne: true, FindById: true,
	FindIds: true, Paginate: true,
	UpdOne: true, UpdMany: true, UpdById: true,
	FindUpd: true,
	DelOne:  true, DelMany: true, DelById: true,
	Count: true, Distinct: true,
	Upsert: false, Exists: true,
}

// Register đăng ký tất cả route CRM lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerCustomerRoutes(v1, r); err != nil {
		return err
	}
	if err := registerInteractionRoutes(v1, r); err != nil {
		return err
	}
	if err := registerTaskRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerCustomerRoutes(router fiber.Router, r *apirouter.Router) error {
	customerHandler, err := crmhdl.NewCustomerHandler()
	if err != nil {
		return fmt.Errorf("failed to create customer handler: %w", err)
	}

	// Xóa khách hàng chỉ dành cho admin / manager. Xóa KHÔNG cascade:
	// interactions và tasks của khách vẫn giữ nguyên.
	r.RegisterCRUDRoutes(router, "/customers", customerHandler, crmCRUDConfig, apirouter.RouteRoles{
		Delete: []string{authmodels.RoleAdmin, authmodels.RoleManager},
	})

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "POST", "/create", []fiber.Handler{authOnlyMiddleware}, customerHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "POST", "/find", []fiber.Handler{authOnlyMiddleware}, customerHandler.HandleFindWithFilter)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "POST", "/:id/status", []fiber.Handler{authOnlyMiddleware}, customerHandler.HandleChangeStatus)
	return nil
}

func registerInteractionRoutes(router fiber.Router, r *apirouter.Router) error {
	interactionHandler, err := crmhdl.NewInteractionHandler()
	if err != nil {
		return fmt.Errorf("failed to create interaction handler: %w", err)
	}

	r.RegisterCRUDRoutes(router, "/interactions", interactionHandler, crmCRUDConfig, apirouter.RouteRoles{})

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/interactions", "POST", "/create", []fiber.Handler{authOnlyMiddleware}, interactionHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/interactions", "POST", "/find", []fiber.Handler{authOnlyMiddleware}, interactionHandler.HandleFindWithFilter)
	return nil
}

func registerTaskRoutes(router fiber.Router, r *apirouter.Router) error {
	taskHandler, err := crmhdl.NewTaskHandler()
	if err != nil {
		return fmt.Errorf("failed to create task handler: %w", err)
	}

	// update-by-id đi qua HandleUpdate của domain để xử lý completedAt
	taskConfig := crmCRUDConfig
	taskConfig.UpdById = false
	r.RegisterCRUDRoutes(router, "/tasks", taskHandler, taskConfig, apirouter.RouteRoles{})

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/tasks", "POST", "/create", []fiber.Handler{authOnlyMiddleware}, taskHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/tasks", "POST", "/find", []fiber.Handler{authOnlyMiddleware}, taskHandler.HandleFindWithFilter)
	apirouter.RegisterRouteWithMiddleware(router, "/tasks", "PUT", "/update-by-id/:id", []fiber.Handler{authOnlyMiddleware}, taskHandler.HandleUpdate)
	return nil
}
