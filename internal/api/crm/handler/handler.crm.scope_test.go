// Package crmhdl - Test phân quyền dữ liệu theo role.
package crmhdl

import (
	"testing"

	authmodels "nexus_crm/internal/api/auth/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("ObjectIDFromHex(%q): %v", hex, err)
	}
	return id
}

func TestAgentAssignedScope_OnlyRestrictsAgent(t *testing.T) {
	userID := mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa")

	scope := AgentAssignedScope(authmodels.RoleAgent, userID)
	if scope == nil {
		t.Fatal("agent phải bị thu hẹp phạm vi")
	}
	if got := scope["assignedTo"]; got != userID {
		t.Errorf("scope[assignedTo] = %v, muốn %v", got, userID)
	}

	if scope := AgentAssignedScope(authmodels.RoleManager, userID); scope != nil {
		t.Errorf("manager không bị giới hạn, got %v", scope)
	}
	if scope := AgentAssignedScope(authmodels.RoleAdmin, userID); scope != nil {
		t.Errorf("admin không bị giới hạn, got %v", scope)
	}
}

func TestMergeScope_AgentOverridesCallerAssignedTo(t *testing.T) {
	agentID := mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa")
	otherID := mustObjectID(t, "bbbbbbbbbbbbbbbbbbbbbbbb")

	// Agent gửi filter chỉ định assignedTo của user khác: scope phải thắng
	filter := map[string]interface{}{"assignedTo": otherID, "status": "lead"}
	merged := MergeScope(filter, AgentAssignedScope(authmodels.RoleAgent, agentID))

	if got := merged["assignedTo"]; got != agentID {
		t.Errorf("merged[assignedTo] = %v, muốn bị ghi đè thành %v", got, agentID)
	}
	if got := merged["status"]; got != "lead" {
		t.Errorf("các điều kiện khác phải giữ nguyên, merged[status] = %v", got)
	}
}

func TestMergeScope_NilInputs(t *testing.T) {
	agentID := mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa")

	// Filter nil vẫn phải nhận được scope
	merged := MergeScope(nil, AgentAssignedScope(authmodels.RoleAgent, agentID))
	if merged == nil || merged["assignedTo"] != agentID {
		t.Errorf("MergeScope(nil, scope) = %v, muốn có assignedTo", merged)
	}

	// Scope nil (admin/manager) giữ nguyên filter
	filter := map[string]interface{}{"status": "customer"}
	merged = MergeScope(filter, nil)
	if len(merged) != 1 || merged["status"] != "customer" {
		t.Errorf("scope nil phải giữ nguyên filter, got %v", merged)
	}
}

func TestCustomerOwnedScope_RestrictsInteractionsToOwnedCustomers(t *testing.T) {
	ids := []primitive.ObjectID{
		mustObjectID(t, "111111111111111111111111"),
		mustObjectID(t, "222222222222222222222222"),
	}

	scope := CustomerOwnedScope(authmodels.RoleAgent, ids)
	if scope == nil {
		t.Fatal("agent phải bị thu hẹp theo khách hàng được gán")
	}
	inClause, ok := scope["customerId"].(bson.M)
	if !ok {
		t.Fatalf("scope[customerId] = %v, muốn bson.M với $in", scope["customerId"])
	}
	inIDs, ok := inClause["$in"].([]primitive.ObjectID)
	if !ok || len(inIDs) != 2 {
		t.Errorf("$in = %v, muốn 2 customer ID", inClause["$in"])
	}

	if scope := CustomerOwnedScope(authmodels.RoleManager, ids); scope != nil {
		t.Errorf("manager không bị giới hạn, got %v", scope)
	}

	// Agent gửi filter chỉ định customerId khác: scope phải thắng
	outsider := mustObjectID(t, "999999999999999999999999")
	merged := MergeScope(map[string]interface{}{"customerId": outsider}, CustomerOwnedScope(authmodels.RoleAgent, ids))
	if _, ok := merged["customerId"].(bson.M); !ok {
		t.Errorf("merged[customerId] = %v, muốn bị ghi đè bằng điều kiện $in", merged["customerId"])
	}
}

func TestCustomerOwnedScope_AgentWithNoCustomers(t *testing.T) {
	// Agent chưa được gán khách hàng nào: $in rỗng, không match document nào
	scope := CustomerOwnedScope(authmodels.RoleAgent, nil)
	if scope == nil {
		t.Fatal("agent không có khách hàng vẫn phải bị thu hẹp")
	}
	inClause := scope["customerId"].(bson.M)
	if ids, ok := inClause["$in"].([]primitive.ObjectID); !ok || len(ids) != 0 {
		t.Errorf("$in = %v, muốn danh sách rỗng", inClause["$in"])
	}
}
