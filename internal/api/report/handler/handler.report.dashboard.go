// Package reporthdl - handler HTTP cho domain report (dashboard).
package reporthdl

import (
	"fmt"
	"time"

	authmodels "nexus_crm/internal/api/auth/models"
	basehdl "nexus_crm/internal/api/base/handler"
	reportsvc "nexus_crm/internal/api/report/service"
	"nexus_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardHandler xử lý các route dashboard.
type DashboardHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	dashboardService *reportsvc.DashboardService
}

// NewDashboardHandler tạo DashboardHandler mới.
func NewDashboardHandler() (*DashboardHandler, error) {
	dashboardService, err := reportsvc.NewDashboardService()
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}
	return &DashboardHandler{
		BaseHandler:      &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		dashboardService: dashboardService,
	}, nil
}

// resolveScope dựng Scope theo role của user: agent chỉ thấy dữ liệu của mình.
func (h *DashboardHandler) resolveScope(c fiber.Ctx) (reportsvc.Scope, error) {
	role, _ := c.Locals("user_role").(string)
	if role != authmodels.RoleAgent {
		return reportsvc.Scope{}, nil
	}

	userIDStr, _ := c.Locals("user_id").(string)
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return reportsvc.Scope{}, common.ErrNotAuthorized
	}
	return h.dashboardService.BuildScopeForAgent(c.Context(), userID)
}

// HandleStats trả về số liệu tổng quan (GET /dashboard/stats).
func (h *DashboardHandler) HandleStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		scope, err := h.resolveScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		stats, err := h.dashboardService.Stats(c.Context(), scope, time.Now())
		h.HandleResponse(c, stats, err)
		return nil
	})
}

// HandleActivity trả về dòng hoạt động gần đây (GET /dashboard/activity).
func (h *DashboardHandler) HandleActivity(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		scope, err := h.resolveScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		activity, err := h.dashboardService.Activity(c.Context(), scope)
		h.HandleResponse(c, activity, err)
		return nil
	})
}

// HandleCharts trả về dữ liệu biểu đồ (GET /dashboard/charts).
func (h *DashboardHandler) HandleCharts(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		scope, err := h.resolveScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		charts, err := h.dashboardService.Charts(c.Context(), scope, time.Now())
		h.HandleResponse(c, charts, err)
		return nil
	})
}

// HandleConversion trả về thống kê chuyển đổi (GET /dashboard/conversion).
func (h *DashboardHandler) HandleConversion(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		scope, err := h.resolveScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		stats, err := h.dashboardService.ConversionStats(c.Context(), scope, time.Now())
		h.HandleResponse(c, stats, err)
		return nil
	})
}
