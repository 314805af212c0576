// Package crmhdl - handler HTTP cho domain CRM.
// Các handler embed BaseHandler cho CRUD chung và bổ sung các route nghiệp vụ
// (typed filter, chuyển trạng thái). Role agent bị thu hẹp phạm vi dữ liệu
// qua scope filter: chỉ thấy khách hàng / task được gán cho mình.
package crmhdl

import (
	"fmt"

	authmodels "nexus_crm/internal/api/auth/models"
	basehdl "nexus_crm/internal/api/base/handler"
	crmdto "nexus_crm/internal/api/crm/dto"
	crmmodels "nexus_crm/internal/api/crm/models"
	crmsvc "nexus_crm/internal/api/crm/service"
	"nexus_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID lấy ObjectID của user đang đăng nhập từ locals (do AuthMiddleware set).
func currentUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userIDStr, _ := c.Locals("user_id").(string)
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, common.ErrNotAuthorized
	}
	return userID, nil
}

// currentUserRole lấy role của user đang đăng nhập từ locals.
func currentUserRole(c fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	return role
}

// AgentAssignedScope trả về điều kiện assignedTo = userID cho role agent,
// nil cho các role khác (không bị giới hạn).
func AgentAssignedScope(role string, userID primitive.ObjectID) bson.M {
	if role != authmodels.RoleAgent {
		return nil
	}
	return bson.M{"assignedTo": userID}
}

// MergeScope ghi đè filter bằng các điều kiện scope.
// Filter gửi lên không bao giờ nới rộng được phạm vi: điều kiện scope luôn thắng.
func MergeScope(filter map[string]interface{}, scope bson.M) map[string]interface{} {
	if filter == nil {
		filter = map[string]interface{}{}
	}
	for k, v := range scope {
		filter[k] = v
	}
	return filter
}

// assignedToScope trả về điều kiện thu hẹp theo role của user đang đăng nhập.
func assignedToScope(c fiber.Ctx) (bson.M, error) {
	role := currentUserRole(c)
	if role != authmodels.RoleAgent {
		return nil, nil
	}
	userID, err := currentUserID(c)
	if err != nil {
		return nil, err
	}
	return AgentAssignedScope(role, userID), nil
}

// assignedToScopeFilter scope filter cho các route CRUD chung (generic /find, /update-one...).
// Agent luôn bị ép assignedTo = chính mình, kể cả khi filter gửi lên chỉ định user khác.
func assignedToScopeFilter(c fiber.Ctx, filter map[string]interface{}) (map[string]interface{}, error) {
	scope, err := assignedToScope(c)
	if err != nil {
		return nil, err
	}
	return MergeScope(filter, scope), nil
}

// CustomerHandler xử lý các route khách hàng.
type CustomerHandler struct {
	*basehdl.BaseHandler[crmmodels.Customer, crmdto.CustomerCreateInput, crmdto.CustomerUpdateInput]
	customerService *crmsvc.CustomerService
}

// NewCustomerHandler tạo CustomerHandler mới.
func NewCustomerHandler() (*CustomerHandler, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %w", err)
	}

	baseHandler := basehdl.NewBaseHandler[crmmodels.Customer, crmdto.CustomerCreateInput, crmdto.CustomerUpdateInput](customerService)
	baseHandler.SetScopeFilter(assignedToScopeFilter)

	return &CustomerHandler{
		BaseHandler:     baseHandler,
		customerService: customerService,
	}, nil
}

// HandleCreate tạo khách hàng mới (POST /customers/create).
// Đi qua CustomerService.CreateCustomer để khởi tạo statusHistory với entry đầu tiên.
func (h *CustomerHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.CustomerCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
				common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi transform dữ liệu: %v", err), common.StatusBadRequest, err))
			return nil
		}

		userID, err := currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.customerService.CreateCustomer(c.Context(), *model, userID)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleFindWithFilter tìm khách hàng theo typed filter (POST /customers/find).
func (h *CustomerHandler) HandleFindWithFilter(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.CustomerFilter
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Filter không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scope, err := assignedToScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.customerService.FindWithFilter(c.Context(), &input, scope)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleChangeStatus chuyển trạng thái khách hàng (POST /customers/:id/status).
// Append entry vào statusHistory và set status trong cùng một update.
func (h *CustomerHandler) HandleChangeStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", id),
				common.StatusBadRequest, nil))
			return nil
		}
		customerID, _ := primitive.ObjectIDFromHex(id)

		var input crmdto.CustomerStatusChangeInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		userID, err := currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Agent chỉ được chuyển trạng thái khách hàng của chính mình,
		// khách hàng ngoài phạm vi trả về not found
		if currentUserRole(c) == authmodels.RoleAgent {
			filter := MergeScope(map[string]interface{}{"_id": customerID}, AgentAssignedScope(authmodels.RoleAgent, userID))
			if _, err := h.customerService.FindOne(c.Context(), filter, nil); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}

		data, err := h.customerService.RecordStatusChange(c.Context(), customerID, input.Status, userID, input.Notes)
		h.HandleResponse(c, data, err)
		return nil
	})
}
