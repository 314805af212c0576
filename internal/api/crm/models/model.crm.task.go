package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của task.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Các mức ưu tiên của task.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// ValidTaskStatuses danh sách trạng thái task hợp lệ
var ValidTaskStatuses = []string{
	TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled,
}

// ValidTaskPriorities danh sách mức ưu tiên hợp lệ
var ValidTaskPriorities = []string{
	TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent,
}

// Task công việc cần làm, có thể gắn với một khách hàng và được gán cho một user.
// CompletedAt chỉ được set khi status chuyển sang completed, và bị xóa khi rời completed.
// Archived đánh dấu task cũ đã được job bảo trì lưu trữ, mặc định bị loại khỏi các filter.
type Task struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     int64              `json:"dueDate" bson:"dueDate" index:"single"`
	Status      string             `json:"status" bson:"status" index:"single" default:"pending"`
	Priority    string             `json:"priority" bson:"priority" default:"medium"`
	CustomerID  primitive.ObjectID `json:"customerId,omitempty" bson:"customerId,omitempty" index:"single"`
	AssignedTo  primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty" index:"single"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CompletedAt int64              `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Archived    bool               `json:"archived" bson:"archived"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsValidTaskStatus kiểm tra trạng thái task có hợp lệ không
func IsValidTaskStatus(status string) bool {
	for _, s := range ValidTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}
