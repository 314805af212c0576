// Package exporthdl - handler HTTP cho domain export (PDF / CSV).
// Các route trả file trực tiếp với Content-Disposition attachment,
// không dùng envelope JSON như các domain khác.
package exporthdl

import (
	"fmt"
	"time"

	authmodels "nexus_crm/internal/api/auth/models"
	basehdl "nexus_crm/internal/api/base/handler"
	exportsvc "nexus_crm/internal/api/export/service"
	"nexus_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExportHandler xử lý các route xuất dữ liệu.
type ExportHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	exportService *exportsvc.ExportService
}

// NewExportHandler tạo ExportHandler mới.
func NewExportHandler() (*ExportHandler, error) {
	exportService, err := exportsvc.NewExportService()
	if err != nil {
		return nil, fmt.Errorf("failed to create export service: %w", err)
	}
	return &ExportHandler{
		BaseHandler:   &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		exportService: exportService,
	}, nil
}

// resolveScopes dựng scope (customer, interaction, task) theo role của user.
func (h *ExportHandler) resolveScopes(c fiber.Ctx) (customerScope, interactionScope, taskScope bson.M, err error) {
	role, _ := c.Locals("user_role").(string)
	if role != authmodels.RoleAgent {
		return nil, nil, nil, nil
	}

	userIDStr, _ := c.Locals("user_id").(string)
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil, nil, nil, common.ErrNotAuthorized
	}

	customerScope, interactionScope, err = h.exportService.AgentCustomerScope(c.Context(), userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return customerScope, interactionScope, bson.M{"assignedTo": userID}, nil
}

// sendFile trả file về client với Content-Disposition attachment.
func sendFile(c fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

// HandleCustomersPDF xuất danh sách khách hàng ra PDF (GET /export/customers/pdf).
// Hỗ trợ query param status để lọc theo trạng thái.
func (h *ExportHandler) HandleCustomersPDF(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		customerScope, _, _, err := h.resolveScopes(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		customers, userNames, err := h.exportService.LoadCustomers(c.Context(), customerScope, c.Query("status"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := exportsvc.CustomersPDF(customers, userNames, time.Now())
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		return sendFile(c, "application/pdf", "customers.pdf", data)
	})
}

// HandleTasksPDF xuất danh sách task ra PDF (GET /export/tasks/pdf).
func (h *ExportHandler) HandleTasksPDF(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		_, _, taskScope, err := h.resolveScopes(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		tasks, userNames, err := h.exportService.LoadTasks(c.Context(), taskScope)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := exportsvc.TasksPDF(tasks, userNames, time.Now())
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		return sendFile(c, "application/pdf", "tasks.pdf", data)
	})
}

// HandleInteractionsPDF xuất danh sách tương tác ra PDF (GET /export/interactions/pdf).
func (h *ExportHandler) HandleInteractionsPDF(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		customerScope, interactionScope, _, err := h.resolveScopes(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		interactions, customerNames, err := h.exportService.LoadInteractions(c.Context(), interactionScope, customerScope)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := exportsvc.InteractionsPDF(interactions, customerNames, time.Now())
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		return sendFile(c, "application/pdf", "interactions.pdf", data)
	})
}

// HandleCustomersCSV xuất danh sách khách hàng ra CSV (GET /export/customers/csv).
func (h *ExportHandler) HandleCustomersCSV(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		customerScope, _, _, err := h.resolveScopes(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		customers, userNames, err := h.exportService.LoadCustomers(c.Context(), customerScope, c.Query("status"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := exportsvc.CustomersCSV(customers, userNames)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		return sendFile(c, "text/csv", "customers.csv", data)
	})
}

// HandleTasksCSV xuất danh sách task ra CSV (GET /export/tasks/csv).
func (h *ExportHandler) HandleTasksCSV(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		_, _, taskScope, err := h.resolveScopes(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		tasks, userNames, err := h.exportService.LoadTasks(c.Context(), taskScope)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := exportsvc.TasksCSV(tasks, userNames)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		return sendFile(c, "text/csv", "tasks.csv", data)
	})
}
