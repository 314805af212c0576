package crmhdl

import (
	"fmt"

	basehdl "nexus_crm/internal/api/base/handler"
	crmdto "nexus_crm/internal/api/crm/dto"
	crmmodels "nexus_crm/internal/api/crm/models"
	crmsvc "nexus_crm/internal/api/crm/service"
	"nexus_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskHandler xử lý các route task.
type TaskHandler struct {
	*basehdl.BaseHandler[crmmodels.Task, crmdto.TaskCreateInput, crmdto.TaskUpdateInput]
	taskService *crmsvc.TaskService
}

// NewTaskHandler tạo TaskHandler mới.
func NewTaskHandler() (*TaskHandler, error) {
	taskService, err := crmsvc.NewTaskService()
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	baseHandler := basehdl.NewBaseHandler[crmmodels.Task, crmdto.TaskCreateInput, crmdto.TaskUpdateInput](taskService)
	baseHandler.SetScopeFilter(assignedToScopeFilter)

	return &TaskHandler{
		BaseHandler: baseHandler,
		taskService: taskService,
	}, nil
}

// HandleCreate tạo task mới (POST /tasks/create).
// Đi qua TaskService.CreateTask để áp dụng mặc định và quy tắc completedAt.
func (h *TaskHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.TaskCreateInput
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

		data, err := h.taskService.CreateTask(c.Context(), *model, userID)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleUpdate cập nhật task theo ID (PUT /tasks/update/:id).
// Đi qua TaskService.UpdateTask để xử lý completedAt khi status thay đổi.
func (h *TaskHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", id),
				common.StatusBadRequest, nil))
			return nil
		}
		taskID, _ := primitive.ObjectIDFromHex(id)

		var input crmdto.TaskUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu cập nhật không đúng định dạng JSON. Chi tiết: %v", err), common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		set := map[string]interface{}{}
		if input.Title != "" {
			set["title"] = input.Title
		}
		if input.Description != "" {
			set["description"] = input.Description
		}
		if input.DueDate > 0 {
			set["dueDate"] = input.DueDate
		}
		if input.Status != "" {
			set["status"] = input.Status
		}
		if input.Priority != "" {
			set["priority"] = input.Priority
		}
		if input.CustomerID != "" {
			customerID, err := primitive.ObjectIDFromHex(input.CustomerID)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "customerId không đúng định dạng ObjectID", common.StatusBadRequest, err))
				return nil
			}
			set["customerId"] = customerID
		}
		if input.AssignedTo != "" {
			assignedTo, err := primitive.ObjectIDFromHex(input.AssignedTo)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "assignedTo không đúng định dạng ObjectID", common.StatusBadRequest, err))
				return nil
			}
			set["assignedTo"] = assignedTo
		}
		if len(set) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		// Agent chỉ được cập nhật task của chính mình, task ngoài phạm vi trả về not found
		scope, err := assignedToScope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(scope) > 0 {
			filter := bson.M{"_id": taskID}
			for k, v := range scope {
				filter[k] = v
			}
			if _, err := h.taskService.FindOne(c.Context(), filter, nil); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}

		data, err := h.taskService.UpdateTask(c.Context(), taskID, set)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleFindWithFilter tìm task theo typed filter (POST /tasks/find).
func (h *TaskHandler) HandleFindWithFilter(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.TaskFilter
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

		data, err := h.taskService.FindWithFilter(c.Context(), &input, scope)
		h.HandleResponse(c, data, err)
		return nil
	})
}
