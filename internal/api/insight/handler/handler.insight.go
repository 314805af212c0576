// Package insighthdl - handler HTTP cho domain insight (chấm điểm heuristic).
package insighthdl

import (
	"fmt"
	"time"

	authmodels "nexus_crm/internal/api/auth/models"
	basehdl "nexus_crm/internal/api/base/handler"
	insightdto "nexus_crm/internal/api/insight/dto"
	insightsvc "nexus_crm/internal/api/insight/service"
	crmsvc "nexus_crm/internal/api/crm/service"
	"nexus_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsightHandler xử lý các route insight.
type InsightHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	insightService  *insightsvc.InsightService
	customerService *crmsvc.CustomerService
}

// NewInsightHandler tạo InsightHandler mới.
func NewInsightHandler() (*InsightHandler, error) {
	insightService, err := insightsvc.NewInsightService()
	if err != nil {
		return nil, fmt.Errorf("failed to create insight service: %w", err)
	}
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %w", err)
	}
	return &InsightHandler{
		BaseHandler:     &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		insightService:  insightService,
		customerService: customerService,
	}, nil
}

// resolveCustomerID parse và kiểm tra quyền truy cập khách hàng từ URL params.
// Agent chỉ được xem insight của khách hàng được gán cho mình.
func (h *InsightHandler) resolveCustomerID(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", id),
			common.StatusBadRequest, nil)
	}
	customerID, _ := primitive.ObjectIDFromHex(id)

	role, _ := c.Locals("user_role").(string)
	if role == authmodels.RoleAgent {
		userIDStr, _ := c.Locals("user_id").(string)
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			return primitive.NilObjectID, common.ErrNotAuthorized
		}
		customer, err := h.customerService.FindOneById(c.Context(), customerID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if customer.AssignedTo != userID {
			return primitive.NilObjectID, common.ErrNotAuthorized
		}
	}

	return customerID, nil
}

// HandleLeadScore tính lead score cho khách hàng (GET /insights/customers/:id/lead-score).
func (h *InsightHandler) HandleLeadScore(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		customerID, err := h.resolveCustomerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		score := h.insightService.LeadScoreForCustomer(c.Context(), customerID)
		h.HandleResponse(c, fiber.Map{"customerId": customerID.Hex(), "leadScore": score}, nil)
		return nil
	})
}

// HandleChurnRisk tính churn risk cho khách hàng (GET /insights/customers/:id/churn-risk).
func (h *InsightHandler) HandleChurnRisk(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		customerID, err := h.resolveCustomerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		risk, err := h.insightService.ChurnRiskForCustomer(c.Context(), customerID, time.Now())
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, fiber.Map{"customerId": customerID.Hex(), "churnRisk": risk}, nil)
		return nil
	})
}

// HandleSentiment phân tích cảm xúc một đoạn text (POST /insights/sentiment).
func (h *InsightHandler) HandleSentiment(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input insightdto.SentimentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		sentiment := insightsvc.AnalyzeSentiment(input.Text)
		h.HandleResponse(c, fiber.Map{"sentiment": sentiment}, nil)
		return nil
	})
}

// HandleChatbot sinh câu trả lời chatbot rule-based (POST /insights/chatbot).
func (h *InsightHandler) HandleChatbot(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input insightdto.ChatbotInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		response := insightsvc.ChatbotResponse(input.Message)
		h.HandleResponse(c, fiber.Map{"response": response}, nil)
		return nil
	})
}

// HandleEmailResponse sinh email trả lời theo template (POST /insights/email-response).
func (h *InsightHandler) HandleEmailResponse(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input insightdto.EmailResponseInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		response := insightsvc.EmailResponse(input.Type)
		h.HandleResponse(c, fiber.Map{"response": response}, nil)
		return nil
	})
}
