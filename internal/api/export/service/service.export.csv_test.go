package exportsvc

import (
	"strings"
	"testing"
	"time"

	crmmodels "nexus_crm/internal/api/crm/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCustomersCSV_EscapesAndFallsBack(t *testing.T) {
	assigned, _ := primitive.ObjectIDFromHex("aaaaaaaaaaaaaaaaaaaaaaaa")
	customers := []crmmodels.Customer{
		{Name: "Smith, John", Email: "john@example.com", Status: "lead", AssignedTo: assigned},
		{Name: "No Owner", Email: "x@example.com", Status: "customer"},
	}
	userNames := map[string]string{"aaaaaaaaaaaaaaaaaaaaaaaa": "Agent A"}

	data, err := CustomersCSV(customers, userNames)
	if err != nil {
		t.Fatalf("CustomersCSV: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "Name,Email,Phone,Company,Status,Notes,Assigned To") {
		t.Errorf("thiếu header, got: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, `"Smith, John"`) {
		t.Error("tên chứa dấu phẩy phải được quote theo RFC 4180")
	}
	if !strings.Contains(out, "Agent A") {
		t.Error("thiếu tên agent được gán")
	}
	if !strings.Contains(out, "Unassigned") {
		t.Error("khách không có người phụ trách phải ghi Unassigned")
	}
}

func TestTasksCSV_FormatsDates(t *testing.T) {
	due := time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local).UnixMilli()
	tasks := []crmmodels.Task{
		{Title: "Follow up", Status: "completed", Priority: "high", DueDate: due, CompletedAt: due},
		{Title: "Call back", Status: "pending", Priority: "low"},
	}

	data, err := TasksCSV(tasks, map[string]string{})
	if err != nil {
		t.Fatalf("TasksCSV: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "2026-01-01") {
		t.Errorf("dueDate phải được format yyyy-mm-dd, got: %q", out)
	}
	// Task chưa có dueDate / completedAt: cột để trống thay vì 1970-01-01
	if strings.Contains(out, "1970-01-01") {
		t.Error("timestamp 0 phải render thành chuỗi rỗng")
	}
}
