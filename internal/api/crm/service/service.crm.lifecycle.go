// Package crmsvc - service domain CRM (Customer, Interaction, Task).
// File này chứa các hàm thuần (pure) của engine vòng đời khách hàng
// và thuật toán gán task, tách riêng để test không cần database.
package crmsvc

import (
	"sort"
	"time"

	crmmodels "nexus_crm/internal/api/crm/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ghi chú tự động khi hệ thống chuyển trạng thái khách hàng.
const (
	NoteAutoInactive  = "Automatically marked inactive due to no interaction in 30 days"
	NoteAutoConverted = "Automatically converted to customer due to positive interactions"
)

// PositiveInteractionsToConvert số tương tác positive tối thiểu để chuyển lead thành customer.
const PositiveInteractionsToConvert = 2

// DeriveStatus suy ra trạng thái hiện tại của khách hàng từ lịch sử trạng thái.
// Lịch sử rỗng nghĩa là khách mới, trạng thái lead. Entry cuối cùng quyết định.
func DeriveStatus(history []crmmodels.StatusHistoryEntry) string {
	if len(history) == 0 {
		return crmmodels.StatusLead
	}
	return history[len(history)-1].Status
}

// NextAutomatedStatus tính trạng thái tự động tiếp theo cho một khách hàng.
//
// Quy tắc:
//  1. Lead có từ PositiveInteractionsToConvert tương tác positive trở lên
//     chuyển sang customer.
//  2. Customer không có tương tác nào trong inactiveAfterDays ngày
//     (hoặc chưa từng có tương tác) chuyển sang inactive.
//     Lead cũ không bị đánh inactive tự động.
//
// lastInteractionAt là Unix ms của tương tác gần nhất, 0 nếu chưa có.
// Trả về changed=false nếu không có chuyển trạng thái nào áp dụng.
func NextAutomatedStatus(status string, lastInteractionAt int64, positiveCount int, now int64, inactiveAfterDays int) (newStatus string, note string, changed bool) {
	if status == crmmodels.StatusLead && positiveCount >= PositiveInteractionsToConvert {
		return crmmodels.StatusCustomer, NoteAutoConverted, true
	}
	if status == crmmodels.StatusCustomer {
		threshold := now - int64(inactiveAfterDays)*24*int64(time.Hour/time.Millisecond)
		if lastInteractionAt == 0 || lastInteractionAt < threshold {
			return crmmodels.StatusInactive, NoteAutoInactive, true
		}
	}
	return status, "", false
}

// AgentLoad số task đang mở của một agent, đầu vào cho PlanTaskAssignments.
type AgentLoad struct {
	UserID    primitive.ObjectID
	OpenTasks int
}

// TaskAssignment một cặp task → user do PlanTaskAssignments quyết định.
type TaskAssignment struct {
	TaskID primitive.ObjectID
	UserID primitive.ObjectID
}

// PlanTaskAssignments phân bổ các task chưa gán cho agent theo thuật toán greedy:
// mỗi task đi đến agent đang có ít task mở nhất tại thời điểm đó.
// Tie-break theo hex của UserID để kết quả ổn định. Không có agent nào thì trả về rỗng.
func PlanTaskAssignments(taskIDs []primitive.ObjectID, agents []AgentLoad) []TaskAssignment {
	if len(taskIDs) == 0 || len(agents) == 0 {
		return nil
	}

	loads := make([]AgentLoad, len(agents))
	copy(loads, agents)
	sort.Slice(loads, func(i, j int) bool {
		if loads[i].OpenTasks != loads[j].OpenTasks {
			return loads[i].OpenTasks < loads[j].OpenTasks
		}
		return loads[i].UserID.Hex() < loads[j].UserID.Hex()
	})

	assignments := make([]TaskAssignment, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		// loads[0] luôn là agent ít việc nhất sau mỗi lần re-sort
		assignments = append(assignments, TaskAssignment{TaskID: taskID, UserID: loads[0].UserID})
		loads[0].OpenTasks++
		// Đẩy agent vừa nhận task về đúng vị trí
		for i := 0; i < len(loads)-1; i++ {
			if loads[i].OpenTasks < loads[i+1].OpenTasks {
				break
			}
			if loads[i].OpenTasks == loads[i+1].OpenTasks && loads[i].UserID.Hex() < loads[i+1].UserID.Hex() {
				break
			}
			loads[i], loads[i+1] = loads[i+1], loads[i]
		}
	}
	return assignments
}
