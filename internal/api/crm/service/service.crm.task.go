package crmsvc

import (
	"context"
	"fmt"
	"time"

	authmodels "nexus_crm/internal/api/auth/models"
	crmdto "nexus_crm/internal/api/crm/dto"
	crmmodels "nexus_crm/internal/api/crm/models"
	basemodels "nexus_crm/internal/api/base/models"
	basesvc "nexus_crm/internal/api/base/service"
	"nexus_crm/internal/common"
	"nexus_crm/internal/global"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskService xử lý logic task: CRUD, quy tắc completedAt, rebalance, lưu trữ.
type TaskService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.Task]
}

// NewTaskService tạo TaskService mới.
func NewTaskService() (*TaskService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Tasks)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Tasks, common.ErrNotFound)
	}
	return &TaskService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.Task](coll),
	}, nil
}

// CreateTask tạo task mới. Status mặc định pending, priority mặc định medium.
// Tạo task với status completed sẽ set luôn completedAt.
func (s *TaskService) CreateTask(ctx context.Context, task crmmodels.Task, createdBy primitive.ObjectID) (crmmodels.Task, error) {
	if task.Status == "" {
		task.Status = crmmodels.TaskStatusPending
	}
	if !crmmodels.IsValidTaskStatus(task.Status) {
		return crmmodels.Task{}, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Trạng thái task '%s' không hợp lệ", task.Status), common.StatusBadRequest, nil)
	}
	if task.Priority == "" {
		task.Priority = crmmodels.TaskPriorityMedium
	}
	if task.CreatedBy.IsZero() {
		task.CreatedBy = createdBy
	}
	if task.Status == crmmodels.TaskStatusCompleted {
		task.CompletedAt = time.Now().UnixMilli()
	}
	return s.BaseServiceMongoImpl.InsertOne(ctx, task)
}

// ApplyStatusChange set completedAt theo quy tắc chuyển trạng thái:
// chuyển SANG completed set completedAt, rời KHỎI completed xóa completedAt.
// Trả về map các field cần $set (và giá trị 0 cho completedAt khi cần xóa).
func ApplyStatusChange(currentStatus, newStatus string, now int64) map[string]interface{} {
	set := map[string]interface{}{"status": newStatus}
	if newStatus == crmmodels.TaskStatusCompleted && currentStatus != crmmodels.TaskStatusCompleted {
		set["completedAt"] = now
	}
	if newStatus != crmmodels.TaskStatusCompleted && currentStatus == crmmodels.TaskStatusCompleted {
		set["completedAt"] = int64(0)
	}
	return set
}

// UpdateTask cập nhật task với quy tắc completedAt khi status thay đổi.
// set chứa các field cần cập nhật (đã qua validate / transform ở handler).
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, set map[string]interface{}) (crmmodels.Task, error) {
	current, err := s.BaseServiceMongoImpl.FindOneById(ctx, taskID)
	if err != nil {
		return crmmodels.Task{}, err
	}

	if newStatus, ok := set["status"].(string); ok && newStatus != "" {
		if !crmmodels.IsValidTaskStatus(newStatus) {
			return crmmodels.Task{}, common.NewError(common.ErrCodeValidationInput,
				fmt.Sprintf("Trạng thái task '%s' không hợp lệ", newStatus), common.StatusBadRequest, nil)
		}
		for k, v := range ApplyStatusChange(current.Status, newStatus, time.Now().UnixMilli()) {
			set[k] = v
		}
	}

	updateData := &basesvc.UpdateData{Set: set}
	// completedAt = 0 nghĩa là rời trạng thái completed, xóa hẳn field thay vì lưu 0
	if v, ok := set["completedAt"].(int64); ok && v == 0 {
		delete(set, "completedAt")
		updateData.Unset = map[string]interface{}{"completedAt": ""}
	}
	return s.BaseServiceMongoImpl.UpdateById(ctx, taskID, updateData)
}

// BuildTaskFilter chuyển TaskFilter (typed) sang bson.M.
// Overdue / DueToday / DueThisWeek tính theo now, ưu tiên theo thứ tự đó
// nếu client gửi nhiều shortcut cùng lúc. Task archived bị loại trừ mặc định.
func BuildTaskFilter(input *crmdto.TaskFilter, now time.Time) (bson.M, error) {
	filter := bson.M{}

	if input.Status != "" {
		filter["status"] = input.Status
	}
	if input.Priority != "" {
		filter["priority"] = input.Priority
	}
	if input.CustomerID != "" {
		customerID, err := primitive.ObjectIDFromHex(input.CustomerID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationInput, "customerId không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		filter["customerId"] = customerID
	}
	if input.AssignedTo != "" {
		assignedTo, err := primitive.ObjectIDFromHex(input.AssignedTo)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationInput, "assignedTo không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		filter["assignedTo"] = assignedTo
	}

	switch {
	case input.Overdue:
		filter["dueDate"] = bson.M{"$lt": now.UnixMilli()}
		filter["status"] = bson.M{"$in": []string{crmmodels.TaskStatusPending, crmmodels.TaskStatusInProgress}}
	case input.DueToday:
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		filter["dueDate"] = bson.M{
			"$gte": startOfDay.UnixMilli(),
			"$lt":  startOfDay.AddDate(0, 0, 1).UnixMilli(),
		}
	case input.DueThisWeek:
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		filter["dueDate"] = bson.M{
			"$gte": startOfDay.UnixMilli(),
			"$lt":  startOfDay.AddDate(0, 0, 7).UnixMilli(),
		}
	case input.DueFrom > 0 || input.DueTo > 0:
		dueRange := bson.M{}
		if input.DueFrom > 0 {
			dueRange["$gte"] = input.DueFrom
		}
		if input.DueTo > 0 {
			dueRange["$lte"] = input.DueTo
		}
		filter["dueDate"] = dueRange
	}

	if input.Archived {
		filter["archived"] = true
	} else {
		filter["archived"] = bson.M{"$ne": true}
	}

	return filter, nil
}

// FindWithFilter tìm task theo typed filter với phân trang, sort theo dueDate tăng dần.
// scope là điều kiện bổ sung theo quyền của user (agent chỉ thấy task được gán cho mình).
func (s *TaskService) FindWithFilter(ctx context.Context, input *crmdto.TaskFilter, scope bson.M) (*basemodels.PaginateResult[crmmodels.Task], error) {
	filter, err := BuildTaskFilter(input, time.Now())
	if err != nil {
		return nil, err
	}
	for k, v := range scope {
		filter[k] = v
	}

	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// loadAgentLoads đọc danh sách agent đang active và số task mở của từng người.
func (s *TaskService) loadAgentLoads(ctx context.Context) ([]AgentLoad, error) {
	userColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Users, common.ErrNotFound)
	}

	cursor, err := userColl.Find(ctx, bson.M{"role": authmodels.RoleAgent, "active": true})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	var agents []authmodels.User
	if err := cursor.All(ctx, &agents); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	loads := make([]AgentLoad, 0, len(agents))
	for _, agent := range agents {
		openCount, err := s.BaseServiceMongoImpl.CountDocuments(ctx, bson.M{
			"assignedTo": agent.ID,
			"status":     bson.M{"$in": []string{crmmodels.TaskStatusPending, crmmodels.TaskStatusInProgress}},
			"archived":   bson.M{"$ne": true},
		})
		if err != nil {
			return nil, err
		}
		loads = append(loads, AgentLoad{UserID: agent.ID, OpenTasks: int(openCount)})
	}
	return loads, nil
}

// RebalanceUnassignedTasks gán các task pending chưa có người phụ trách cho agent
// đang ít việc nhất (PlanTaskAssignments). Trả về số task đã được gán.
// Lỗi trên từng task chỉ được log và bỏ qua.
func (s *TaskService) RebalanceUnassignedTasks(ctx context.Context) (int, error) {
	unassigned, err := s.BaseServiceMongoImpl.Find(ctx, bson.M{
		"status":   crmmodels.TaskStatusPending,
		"archived": bson.M{"$ne": true},
		"$or": []bson.M{
			{"assignedTo": primitive.NilObjectID},
			{"assignedTo": bson.M{"$exists": false}},
		},
	}, nil)
	if err != nil {
		return 0, err
	}
	if len(unassigned) == 0 {
		return 0, nil
	}

	loads, err := s.loadAgentLoads(ctx)
	if err != nil {
		return 0, err
	}
	if len(loads) == 0 {
		logrus.Warn("RebalanceUnassignedTasks: Không có agent active nào, bỏ qua rebalance")
		return 0, nil
	}

	taskIDs := make([]primitive.ObjectID, len(unassigned))
	for i, task := range unassigned {
		taskIDs[i] = task.ID
	}

	assignedCount := 0
	for _, assignment := range PlanTaskAssignments(taskIDs, loads) {
		updateData := &basesvc.UpdateData{
			Set: map[string]interface{}{"assignedTo": assignment.UserID},
		}
		if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, assignment.TaskID, updateData); err != nil {
			logrus.WithFields(logrus.Fields{"task_id": assignment.TaskID.Hex(), "user_id": assignment.UserID.Hex(), "error": err.Error()}).
				Error("RebalanceUnassignedTasks: Lỗi gán task, bỏ qua")
			continue
		}
		assignedCount++
	}

	if assignedCount > 0 {
		logrus.WithFields(logrus.Fields{"assigned": assignedCount, "agents": len(loads)}).
			Info("RebalanceUnassignedTasks: Đã gán task chưa có người phụ trách")
	}
	return assignedCount, nil
}

// StaleTaskArchiveFilter trả về filter chọn các task completed đã hoàn thành
// trước cutoff và chưa được archive.
func StaleTaskArchiveFilter(cutoff int64) bson.M {
	return bson.M{
		"status":      crmmodels.TaskStatusCompleted,
		"archived":    bson.M{"$ne": true},
		"completedAt": bson.M{"$gt": int64(0), "$lt": cutoff},
	}
}

// ArchiveStaleTasks đánh dấu archived cho các task completed đã hoàn thành
// quá thời hạn cấu hình (mặc định 6 tháng), theo completedAt.
// Trả về số task đã lưu trữ.
func (s *TaskService) ArchiveStaleTasks(ctx context.Context, now time.Time) (int64, error) {
	archiveAfterMonths := 6
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.TaskArchiveAfter_Months > 0 {
		archiveAfterMonths = global.MongoDB_ServerConfig.TaskArchiveAfter_Months
	}
	cutoff := now.AddDate(0, -archiveAfterMonths, 0).UnixMilli()

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"archived": true},
	}
	return s.BaseServiceMongoImpl.UpdateMany(ctx, StaleTaskArchiveFilter(cutoff), updateData, nil)
}
