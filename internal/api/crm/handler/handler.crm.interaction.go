package crmhdl

import (
	"context"
	"fmt"

	authmodels "nexus_crm/internal/api/auth/models"
	basehdl "nexus_crm/internal/api/base/handler"
	crmdto "nexus_crm/internal/api/crm/dto"
	crmmodels "nexus_crm/internal/api/crm/models"
	crmsvc "nexus_crm/internal/api/crm/service"
	"nexus_crm/internal/common"
	"nexus_crm/internal/global"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// agentCustomerIDs trả về danh sách ID khách hàng được gán cho một agent.
func agentCustomerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	customerColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Customers, common.ErrNotFound)
	}

	cursor, err := customerColl.Find(ctx, bson.M{"assignedTo": userID})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	var customers []crmmodels.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	ids := make([]primitive.ObjectID, len(customers))
	for i, customer := range customers {
		ids[i] = customer.ID
	}
	return ids, nil
}

// customerOwnedScope trả về điều kiện thu hẹp interaction theo role:
// agent chỉ thấy tương tác của các khách hàng được gán cho mình.
func customerOwnedScope(c fiber.Ctx) (bson.M, error) {
	role := currentUserRole(c)
	if role != authmodels.RoleAgent {
		return nil, nil
	}
	userID, err := currentUserID(c)
	if err != nil {
		return nil, err
	}
	ids, err := agentCustomerIDs(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	return CustomerOwnedScope(role, ids), nil
}

// CustomerOwnedScope trả về điều kiện customerId $in danh sách khách hàng của agent,
// nil cho các role khác.
func CustomerOwnedScope(role string, customerIDs []primitive.ObjectID) bson.M {
	if role != authmodels.RoleAgent {
		return nil
	}
	return bson.M{"customerId": bson.M{"$in": customerIDs}}
}

// customerOwnedScopeFilter scope filter cho các route CRUD chung của interaction.
func customerOwnedScopeFilter(c fiber.Ctx, filter map[string]interface{}) (map[string]interface{}, error) {
	scope, err := customerOwnedScope(c)
	if err != nil {
		return nil, err
	}
	return MergeScope(filter, scope), nil
}

// InteractionHandler xử lý các route tương tác khách hàng.
type InteractionHandler struct {
	*basehdl.BaseHandler[crmmodels.Interaction, crmdto.InteractionCreateInput, crmdto.InteractionUpdateInput]
	interactionService *crmsvc.InteractionService
}

// NewInteractionHandler tạo InteractionHandler mới.
func NewInteractionHandler() (*InteractionHandler, error) {
	interactionService, err := crmsvc.NewInteractionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create interaction service: %w", err)
	}

	baseHandler := basehdl.NewBaseHandler[crmmodels.Interaction, crmdto.InteractionCreateInput, crmdto.InteractionUpdateInput](interactionService)
	baseHandler.SetScopeFilter(customerOwnedScopeFilter)

	return &InteractionHandler{
		BaseHandler:        baseHandler,
		interactionService: interactionService,
	}, nil
}

// HandleCreate tạo tương tác mới (POST /interactions/create).
// Đi qua InteractionService.CreateInteraction để cập nhật lastContact của khách hàng.
func (h *InteractionHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.InteractionCreateInput
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

		// Agent chỉ được tạo tương tác cho khách hàng của chính mình
		if currentUserRole(c) == authmodels.RoleAgent {
			customerColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
			if !exist {
				h.HandleResponse(c, nil, common.ErrNotFound)
				return nil
			}
			count, err := customerColl.CountDocuments(c.Context(), bson.M{"_id": model.CustomerID, "assignedTo": userID})
			if err != nil {
				h.HandleResponse(c, nil, common.ConvertMongoError(err))
				return nil
			}
			if count == 0 {
				h.HandleResponse(c, nil, common.ErrNotAuthorized)
				return nil
			}
		}

		data, err := h.interactionService.CreateInteraction(c.Context(), *model, userID)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleFindWithFilter tìm tương tác theo typed filter (POST /interactions/find).
func (h *InteractionHandler) HandleFindWithFilter(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.InteractionFilter
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Filter không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scope, err := customerOwnedScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.interactionService.FindWithFilter(c.Context(), &input, scope)
		h.HandleResponse(c, data, err)
		return nil
	})
}
