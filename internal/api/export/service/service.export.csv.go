package exportsvc

import (
	"bytes"
	"encoding/csv"
	"fmt"

	crmmodels "nexus_crm/internal/api/crm/models"
)

// writeCSV ghi header + các hàng dữ liệu ra bytes, escaping theo chuẩn RFC 4180.
func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("lỗi ghi CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("lỗi ghi CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("lỗi flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// CustomersCSV xuất danh sách khách hàng ra CSV.
func CustomersCSV(customers []crmmodels.Customer, userNames map[string]string) ([]byte, error) {
	header := []string{"Name", "Email", "Phone", "Company", "Status", "Notes", "Assigned To"}
	rows := make([][]string, 0, len(customers))
	for _, customer := range customers {
		assignedName := userNames[customer.AssignedTo.Hex()]
		if assignedName == "" {
			assignedName = "Unassigned"
		}
		rows = append(rows, []string{
			customer.Name, customer.Email, customer.Phone,
			customer.Company, customer.Status, customer.Notes, assignedName,
		})
	}
	return writeCSV(header, rows)
}

// TasksCSV xuất danh sách task ra CSV.
func TasksCSV(tasks []crmmodels.Task, userNames map[string]string) ([]byte, error) {
	header := []string{"Title", "Description", "Due Date", "Status", "Priority", "Assigned To", "Completed At"}
	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		assignedName := userNames[task.AssignedTo.Hex()]
		if assignedName == "" {
			assignedName = "Unassigned"
		}
		rows = append(rows, []string{
			task.Title, task.Description, formatDate(task.DueDate),
			task.Status, task.Priority, assignedName, formatDate(task.CompletedAt),
		})
	}
	return writeCSV(header, rows)
}
