package exportsvc

import (
	"context"
	"fmt"

	authmodels "nexus_crm/internal/api/auth/models"
	crmmodels "nexus_crm/internal/api/crm/models"
	crmsvc "nexus_crm/internal/api/crm/service"
	"nexus_crm/internal/common"
	"nexus_crm/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExportService đọc dữ liệu CRM theo scope và xuất ra PDF / CSV.
type ExportService struct {
	customerService    *crmsvc.CustomerService
	interactionService *crmsvc.InteractionService
	taskService        *crmsvc.TaskService
}

// NewExportService tạo ExportService mới.
func NewExportService() (*ExportService, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, err
	}
	interactionService, err := crmsvc.NewInteractionService()
	if err != nil {
		return nil, err
	}
	taskService, err := crmsvc.NewTaskService()
	if err != nil {
		return nil, err
	}
	return &ExportService{
		customerService:    customerService,
		interactionService: interactionService,
		taskService:        taskService,
	}, nil
}

// userNameMap đọc map từ user ID (hex) sang tên user, dùng cho các cột Assigned To.
func (s *ExportService) userNameMap(ctx context.Context) (map[string]string, error) {
	userColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Users, common.ErrNotFound)
	}

	cursor, err := userColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	var users []authmodels.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID.Hex()] = user.Name
	}
	return names, nil
}

// customerNameMap đọc map từ customer ID (hex) sang tên khách hàng.
func (s *ExportService) customerNameMap(ctx context.Context, scope bson.M) (map[string]string, error) {
	customers, err := s.customerService.Find(ctx, mergeScope(bson.M{}, scope), nil)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(customers))
	for _, customer := range customers {
		names[customer.ID.Hex()] = customer.Name
	}
	return names, nil
}

// mergeScope gộp filter với điều kiện scope.
func mergeScope(filter bson.M, scope bson.M) bson.M {
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range scope {
		merged[k] = v
	}
	return merged
}

// LoadCustomers đọc danh sách khách hàng theo scope, lọc thêm theo status nếu có.
func (s *ExportService) LoadCustomers(ctx context.Context, scope bson.M, status string) ([]crmmodels.Customer, map[string]string, error) {
	filter := bson.M{}
	if status != "" {
		if !crmmodels.IsValidCustomerStatus(status) {
			return nil, nil, common.NewError(common.ErrCodeValidationInput,
				fmt.Sprintf("Trạng thái '%s' không hợp lệ", status), common.StatusBadRequest, nil)
		}
		filter["status"] = status
	}

	customers, err := s.customerService.Find(ctx, mergeScope(filter, scope),
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, nil, err
	}

	names, err := s.userNameMap(ctx)
	if err != nil {
		return nil, nil, err
	}
	return customers, names, nil
}

// LoadTasks đọc danh sách task theo scope (không gồm task đã lưu trữ).
func (s *ExportService) LoadTasks(ctx context.Context, scope bson.M) ([]crmmodels.Task, map[string]string, error) {
	tasks, err := s.taskService.Find(ctx, mergeScope(bson.M{"archived": bson.M{"$ne": true}}, scope),
		options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
	if err != nil {
		return nil, nil, err
	}

	names, err := s.userNameMap(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tasks, names, nil
}

// LoadInteractions đọc danh sách tương tác theo scope kèm map tên khách hàng.
// customerScope dùng để giới hạn map tên theo quyền của user.
func (s *ExportService) LoadInteractions(ctx context.Context, scope bson.M, customerScope bson.M) ([]crmmodels.Interaction, map[string]string, error) {
	interactions, err := s.interactionService.Find(ctx, mergeScope(bson.M{}, scope),
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, nil, err
	}

	names, err := s.customerNameMap(ctx, customerScope)
	if err != nil {
		return nil, nil, err
	}
	return interactions, names, nil
}

// AgentCustomerScope trả về cặp scope (customer, interaction) cho một agent.
func (s *ExportService) AgentCustomerScope(ctx context.Context, userID primitive.ObjectID) (customerScope, interactionScope bson.M, err error) {
	customers, err := s.customerService.Find(ctx, bson.M{"assignedTo": userID}, nil)
	if err != nil {
		return nil, nil, err
	}
	customerIDs := make([]primitive.ObjectID, len(customers))
	for i, customer := range customers {
		customerIDs[i] = customer.ID
	}
	return bson.M{"assignedTo": userID}, bson.M{"customerId": bson.M{"$in": customerIDs}}, nil
}
