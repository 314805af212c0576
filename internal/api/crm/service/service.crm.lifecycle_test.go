// Package crmsvc - Test engine vòng đời khách hàng và thuật toán gán task.
package crmsvc

import (
	"testing"
	"time"

	crmmodels "nexus_crm/internal/api/crm/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dayMs = int64(24 * time.Hour / time.Millisecond)

func TestDeriveStatus_EmptyHistoryIsLead(t *testing.T) {
	if got := DeriveStatus(nil); got != crmmodels.StatusLead {
		t.Errorf("DeriveStatus(nil) = %q, muốn %q", got, crmmodels.StatusLead)
	}
	if got := DeriveStatus([]crmmodels.StatusHistoryEntry{}); got != crmmodels.StatusLead {
		t.Errorf("DeriveStatus(rỗng) = %q, muốn %q", got, crmmodels.StatusLead)
	}
}

func TestDeriveStatus_LastEntryWins(t *testing.T) {
	history := []crmmodels.StatusHistoryEntry{
		{Status: crmmodels.StatusLead, Date: 1000},
		{Status: crmmodels.StatusCustomer, Date: 2000},
		{Status: crmmodels.StatusInactive, Date: 3000},
	}
	if got := DeriveStatus(history); got != crmmodels.StatusInactive {
		t.Errorf("DeriveStatus = %q, muốn entry cuối %q", got, crmmodels.StatusInactive)
	}
}

func TestNextAutomatedStatus_NeverInteractedCustomerBecomesInactive(t *testing.T) {
	now := int64(100 * dayMs)
	newStatus, note, changed := NextAutomatedStatus(crmmodels.StatusCustomer, 0, 0, now, 30)
	if !changed {
		t.Fatal("customer chưa từng có tương tác phải chuyển inactive")
	}
	if newStatus != crmmodels.StatusInactive {
		t.Errorf("newStatus = %q, muốn %q", newStatus, crmmodels.StatusInactive)
	}
	if note != NoteAutoInactive {
		t.Errorf("note = %q, muốn %q", note, NoteAutoInactive)
	}
}

func TestNextAutomatedStatus_LeadNeverGoesInactive(t *testing.T) {
	now := int64(100 * dayMs)

	// Lead mới tạo, chưa có tương tác: giữ nguyên
	newStatus, note, changed := NextAutomatedStatus(crmmodels.StatusLead, 0, 0, now, 30)
	if changed {
		t.Errorf("lead chưa có tương tác không được chuyển, got (%q, %q)", newStatus, note)
	}

	// Lead có tương tác cũ hơn 30 ngày nhưng chưa đủ positive: vẫn giữ nguyên
	last := now - 40*dayMs
	newStatus, _, changed = NextAutomatedStatus(crmmodels.StatusLead, last, PositiveInteractionsToConvert-1, now, 30)
	if changed {
		t.Errorf("quy tắc inactive chỉ áp dụng cho customer, lead phải giữ nguyên, got %q", newStatus)
	}
}

func TestNextAutomatedStatus_StaleInteractionBecomesInactive(t *testing.T) {
	now := int64(100 * dayMs)
	last := now - 31*dayMs
	newStatus, _, changed := NextAutomatedStatus(crmmodels.StatusCustomer, last, 0, now, 30)
	if !changed || newStatus != crmmodels.StatusInactive {
		t.Errorf("customer với tương tác 31 ngày trước phải chuyển inactive, got (%q, %v)", newStatus, changed)
	}
}

func TestNextAutomatedStatus_RecentInteractionStays(t *testing.T) {
	now := int64(100 * dayMs)
	last := now - 5*dayMs
	newStatus, note, changed := NextAutomatedStatus(crmmodels.StatusCustomer, last, 0, now, 30)
	if changed {
		t.Errorf("customer có tương tác gần đây không được chuyển, got (%q, %q)", newStatus, note)
	}
}

func TestNextAutomatedStatus_ConvertsLeadWithEnoughPositives(t *testing.T) {
	now := int64(100 * dayMs)
	last := now - dayMs

	newStatus, note, changed := NextAutomatedStatus(crmmodels.StatusLead, last, PositiveInteractionsToConvert, now, 30)
	if !changed || newStatus != crmmodels.StatusCustomer {
		t.Fatalf("lead đủ positive phải chuyển customer, got (%q, %v)", newStatus, changed)
	}
	if note != NoteAutoConverted {
		t.Errorf("note = %q, muốn %q", note, NoteAutoConverted)
	}

	// Thiếu 1 positive thì giữ nguyên
	_, _, changed = NextAutomatedStatus(crmmodels.StatusLead, last, PositiveInteractionsToConvert-1, now, 30)
	if changed {
		t.Error("lead chưa đủ positive không được chuyển")
	}
}

func TestNextAutomatedStatus_StalePositiveLeadStillConverts(t *testing.T) {
	now := int64(100 * dayMs)
	last := now - 40*dayMs
	// Đủ positive nhưng tương tác cuối đã lâu: lead vẫn chuyển customer
	newStatus, note, changed := NextAutomatedStatus(crmmodels.StatusLead, last, PositiveInteractionsToConvert, now, 30)
	if !changed || newStatus != crmmodels.StatusCustomer {
		t.Fatalf("lead đủ positive phải chuyển customer kể cả khi tương tác đã cũ, got (%q, %v)", newStatus, changed)
	}
	if note != NoteAutoConverted {
		t.Errorf("note = %q, muốn %q", note, NoteAutoConverted)
	}
}

func TestNextAutomatedStatus_AlreadyInactiveUnchanged(t *testing.T) {
	now := int64(100 * dayMs)
	newStatus, _, changed := NextAutomatedStatus(crmmodels.StatusInactive, 0, 5, now, 30)
	if changed {
		t.Errorf("khách đã inactive không được chuyển thêm, got %q", newStatus)
	}
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("ObjectIDFromHex(%q): %v", hex, err)
	}
	return id
}

func TestPlanTaskAssignments_LeastLoadedFirst(t *testing.T) {
	agentA := mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa")
	agentB := mustObjectID(t, "bbbbbbbbbbbbbbbbbbbbbbbb")
	agentC := mustObjectID(t, "cccccccccccccccccccccccc")

	taskIDs := []primitive.ObjectID{
		mustObjectID(t, "111111111111111111111111"),
		mustObjectID(t, "222222222222222222222222"),
	}
	agents := []AgentLoad{
		{UserID: agentA, OpenTasks: 3},
		{UserID: agentB, OpenTasks: 1},
		{UserID: agentC, OpenTasks: 1},
	}

	assignments := PlanTaskAssignments(taskIDs, agents)
	if len(assignments) != 2 {
		t.Fatalf("số assignment = %d, muốn 2", len(assignments))
	}
	// Tie 1-1 giữa B và C: B thắng theo hex, rồi C nhận task tiếp theo
	if assignments[0].UserID != agentB {
		t.Errorf("task 1 gán cho %s, muốn agent B", assignments[0].UserID.Hex())
	}
	if assignments[1].UserID != agentC {
		t.Errorf("task 2 gán cho %s, muốn agent C", assignments[1].UserID.Hex())
	}
}

func TestPlanTaskAssignments_Deterministic(t *testing.T) {
	agents := []AgentLoad{
		{UserID: mustObjectID(t, "cccccccccccccccccccccccc"), OpenTasks: 0},
		{UserID: mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa"), OpenTasks: 0},
		{UserID: mustObjectID(t, "bbbbbbbbbbbbbbbbbbbbbbbb"), OpenTasks: 0},
	}
	taskIDs := []primitive.ObjectID{
		mustObjectID(t, "111111111111111111111111"),
		mustObjectID(t, "222222222222222222222222"),
		mustObjectID(t, "333333333333333333333333"),
	}

	first := PlanTaskAssignments(taskIDs, agents)
	for i := 0; i < 10; i++ {
		again := PlanTaskAssignments(taskIDs, agents)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("lần chạy %d cho kết quả khác tại assignment %d", i, j)
			}
		}
	}
	// Tất cả cùng load 0: thứ tự nhận task theo hex tăng dần
	if first[0].UserID.Hex() != "aaaaaaaaaaaaaaaaaaaaaaaa" ||
		first[1].UserID.Hex() != "bbbbbbbbbbbbbbbbbbbbbbbb" ||
		first[2].UserID.Hex() != "cccccccccccccccccccccccc" {
		t.Errorf("thứ tự gán không theo hex: %v", first)
	}
}

func TestPlanTaskAssignments_NoAgents(t *testing.T) {
	taskIDs := []primitive.ObjectID{mustObjectID(t, "111111111111111111111111")}
	if got := PlanTaskAssignments(taskIDs, nil); got != nil {
		t.Errorf("không có agent phải trả về nil, got %v", got)
	}
}

func TestPlanTaskAssignments_DoesNotMutateInput(t *testing.T) {
	agents := []AgentLoad{
		{UserID: mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa"), OpenTasks: 0},
		{UserID: mustObjectID(t, "bbbbbbbbbbbbbbbbbbbbbbbb"), OpenTasks: 2},
	}
	taskIDs := []primitive.ObjectID{
		mustObjectID(t, "111111111111111111111111"),
		mustObjectID(t, "222222222222222222222222"),
	}
	PlanTaskAssignments(taskIDs, agents)
	if agents[0].OpenTasks != 0 || agents[1].OpenTasks != 2 {
		t.Errorf("input agents bị thay đổi: %v", agents)
	}
}
