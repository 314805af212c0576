package crmsvc

import (
	"testing"
	"time"

	crmdto "nexus_crm/internal/api/crm/dto"
	crmmodels "nexus_crm/internal/api/crm/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestApplyStatusChange_SetsCompletedAt(t *testing.T) {
	now := time.Now().UnixMilli()
	set := ApplyStatusChange(crmmodels.TaskStatusPending, crmmodels.TaskStatusCompleted, now)

	if set["status"] != crmmodels.TaskStatusCompleted {
		t.Errorf("status = %v, muốn completed", set["status"])
	}
	if set["completedAt"] != now {
		t.Errorf("completedAt = %v, muốn %d", set["completedAt"], now)
	}
}

func TestApplyStatusChange_ClearsCompletedAtOnReopen(t *testing.T) {
	set := ApplyStatusChange(crmmodels.TaskStatusCompleted, crmmodels.TaskStatusInProgress, 12345)

	if set["status"] != crmmodels.TaskStatusInProgress {
		t.Errorf("status = %v, muốn in-progress", set["status"])
	}
	if v, ok := set["completedAt"].(int64); !ok || v != 0 {
		t.Errorf("completedAt = %v, muốn sentinel 0 để xóa field", set["completedAt"])
	}
}

func TestApplyStatusChange_NoCompletedAtWhenNotInvolved(t *testing.T) {
	set := ApplyStatusChange(crmmodels.TaskStatusPending, crmmodels.TaskStatusInProgress, 12345)
	if _, ok := set["completedAt"]; ok {
		t.Errorf("pending → in-progress không được đụng completedAt, set = %v", set)
	}

	// completed → completed giữ nguyên completedAt cũ
	set = ApplyStatusChange(crmmodels.TaskStatusCompleted, crmmodels.TaskStatusCompleted, 12345)
	if _, ok := set["completedAt"]; ok {
		t.Errorf("completed → completed không được đụng completedAt, set = %v", set)
	}
}

func TestBuildTaskFilter_DefaultExcludesArchived(t *testing.T) {
	filter, err := BuildTaskFilter(&crmdto.TaskFilter{}, time.Now())
	if err != nil {
		t.Fatalf("BuildTaskFilter: %v", err)
	}
	archived, ok := filter["archived"].(bson.M)
	if !ok || archived["$ne"] != true {
		t.Errorf("filter mặc định phải loại trừ archived, got %v", filter["archived"])
	}
}

func TestBuildTaskFilter_ArchivedOnly(t *testing.T) {
	filter, err := BuildTaskFilter(&crmdto.TaskFilter{Archived: true}, time.Now())
	if err != nil {
		t.Fatalf("BuildTaskFilter: %v", err)
	}
	if filter["archived"] != true {
		t.Errorf("archived = %v, muốn true", filter["archived"])
	}
}

func TestBuildTaskFilter_Overdue(t *testing.T) {
	now := time.Now()
	filter, err := BuildTaskFilter(&crmdto.TaskFilter{Overdue: true}, now)
	if err != nil {
		t.Fatalf("BuildTaskFilter: %v", err)
	}

	dueDate, ok := filter["dueDate"].(bson.M)
	if !ok || dueDate["$lt"] != now.UnixMilli() {
		t.Errorf("overdue phải lọc dueDate < now, got %v", filter["dueDate"])
	}
	// Overdue chỉ tính task còn mở
	status, ok := filter["status"].(bson.M)
	if !ok {
		t.Fatalf("overdue phải giới hạn status, got %v", filter["status"])
	}
	in, ok := status["$in"].([]string)
	if !ok || len(in) != 2 {
		t.Errorf("status $in = %v, muốn [pending in-progress]", status["$in"])
	}
}

func TestBuildTaskFilter_DueToday(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)
	filter, err := BuildTaskFilter(&crmdto.TaskFilter{DueToday: true}, now)
	if err != nil {
		t.Fatalf("BuildTaskFilter: %v", err)
	}

	startOfDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	dueDate, ok := filter["dueDate"].(bson.M)
	if !ok {
		t.Fatalf("dueDate không phải bson.M: %v", filter["dueDate"])
	}
	if dueDate["$gte"] != startOfDay.UnixMilli() {
		t.Errorf("$gte = %v, muốn đầu ngày %d", dueDate["$gte"], startOfDay.UnixMilli())
	}
	if dueDate["$lt"] != startOfDay.AddDate(0, 0, 1).UnixMilli() {
		t.Errorf("$lt = %v, muốn đầu ngày hôm sau", dueDate["$lt"])
	}
}

func TestBuildTaskFilter_DueRange(t *testing.T) {
	filter, err := BuildTaskFilter(&crmdto.TaskFilter{DueFrom: 1000, DueTo: 2000}, time.Now())
	if err != nil {
		t.Fatalf("BuildTaskFilter: %v", err)
	}
	dueDate, ok := filter["dueDate"].(bson.M)
	if !ok || dueDate["$gte"] != int64(1000) || dueDate["$lte"] != int64(2000) {
		t.Errorf("dueDate = %v, muốn range [1000, 2000]", filter["dueDate"])
	}
}

func TestBuildTaskFilter_InvalidObjectID(t *testing.T) {
	if _, err := BuildTaskFilter(&crmdto.TaskFilter{CustomerID: "not-hex"}, time.Now()); err == nil {
		t.Error("customerId sai định dạng phải trả về lỗi")
	}
	if _, err := BuildTaskFilter(&crmdto.TaskFilter{AssignedTo: "not-hex"}, time.Now()); err == nil {
		t.Error("assignedTo sai định dạng phải trả về lỗi")
	}
}

func TestStaleTaskArchiveFilter(t *testing.T) {
	cutoff := int64(100 * dayMs)
	filter := StaleTaskArchiveFilter(cutoff)

	// Chỉ archive task completed, theo completedAt
	if got := filter["status"]; got != crmmodels.TaskStatusCompleted {
		t.Errorf("status = %v, muốn chỉ completed", got)
	}
	completedAt, ok := filter["completedAt"].(bson.M)
	if !ok {
		t.Fatalf("filter thiếu completedAt, got %v", filter)
	}
	if completedAt["$lt"] != cutoff {
		t.Errorf("completedAt $lt = %v, muốn %d", completedAt["$lt"], cutoff)
	}
	// Task chưa có completedAt (giá trị 0) không được archive
	if completedAt["$gt"] != int64(0) {
		t.Errorf("completedAt $gt = %v, muốn 0 để loại task chưa hoàn thành", completedAt["$gt"])
	}

	archived, ok := filter["archived"].(bson.M)
	if !ok || archived["$ne"] != true {
		t.Errorf("archived = %v, muốn $ne true", filter["archived"])
	}
}
