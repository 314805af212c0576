// Package exportsvc - service xuất dữ liệu CRM ra PDF / CSV.
// PDF dựng bằng Maroto v2 theo layout bảng đơn giản: tiêu đề + ngày xuất + bảng dữ liệu.
package exportsvc

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	crmmodels "nexus_crm/internal/api/crm/models"
)

var (
	pdfColorPrimary = &props.Color{Red: 33, Green: 66, Blue: 120}
	pdfColorGray    = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// pdfColumn một cột của bảng PDF: nhãn, độ rộng (tổng 12) và căn lề.
type pdfColumn struct {
	Label string
	Width int
	Align align.Type
}

// newListDocument dựng document A4 landscape với tiêu đề và bảng header chung.
func newListDocument(title string, columns []pdfColumn, generatedAt time.Time) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 14, Color: pdfColorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Generated: "+generatedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: pdfColorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: pdfColorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow(columns))
	return m
}

// headerRow dựng hàng tiêu đề bảng.
func headerRow(columns []pdfColumn) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, column := range columns {
		cols = append(cols, col.New(column.Width).Add(
			text.New(column.Label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: column.Align,
				Color: pdfColorPrimary, Top: 1,
			}),
		))
	}
	return row.New(7).Add(cols...)
}

// dataRow dựng một hàng dữ liệu theo cùng layout cột với header.
func dataRow(columns []pdfColumn, values []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, column := range columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		cols = append(cols, col.New(column.Width).Add(
			text.New(value, props.Text{Size: 8, Align: column.Align, Top: 1}),
		))
	}
	return row.New(6).Add(cols...)
}

// formatDate format Unix ms sang ngày, rỗng nếu chưa có giá trị.
func formatDate(unixMilli int64) string {
	if unixMilli == 0 {
		return ""
	}
	return time.UnixMilli(unixMilli).Format("2006-01-02")
}

// CustomersPDF dựng PDF danh sách khách hàng.
// userNames map từ user ID sang tên, dùng cho cột Assigned To.
func CustomersPDF(customers []crmmodels.Customer, userNames map[string]string, generatedAt time.Time) ([]byte, error) {
	columns := []pdfColumn{
		{Label: "Name", Width: 2, Align: align.Left},
		{Label: "Email", Width: 3, Align: align.Left},
		{Label: "Phone", Width: 2, Align: align.Left},
		{Label: "Company", Width: 2, Align: align.Left},
		{Label: "Status", Width: 1, Align: align.Center},
		{Label: "Assigned To", Width: 2, Align: align.Left},
	}

	m := newListDocument("Customers", columns, generatedAt)
	for _, customer := range customers {
		assignedName := userNames[customer.AssignedTo.Hex()]
		if assignedName == "" {
			assignedName = "Unassigned"
		}
		m.AddRows(dataRow(columns, []string{
			customer.Name, customer.Email, customer.Phone,
			customer.Company, customer.Status, assignedName,
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("lỗi sinh PDF danh sách khách hàng: %w", err)
	}
	return doc.GetBytes(), nil
}

// TasksPDF dựng PDF danh sách task.
func TasksPDF(tasks []crmmodels.Task, userNames map[string]string, generatedAt time.Time) ([]byte, error) {
	columns := []pdfColumn{
		{Label: "Title", Width: 4, Align: align.Left},
		{Label: "Due Date", Width: 2, Align: align.Center},
		{Label: "Status", Width: 2, Align: align.Center},
		{Label: "Priority", Width: 2, Align: align.Center},
		{Label: "Assigned To", Width: 2, Align: align.Left},
	}

	m := newListDocument("Tasks", columns, generatedAt)
	for _, task := range tasks {
		assignedName := userNames[task.AssignedTo.Hex()]
		if assignedName == "" {
			assignedName = "Unassigned"
		}
		m.AddRows(dataRow(columns, []string{
			task.Title, formatDate(task.DueDate), task.Status, task.Priority, assignedName,
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("lỗi sinh PDF danh sách task: %w", err)
	}
	return doc.GetBytes(), nil
}

// InteractionsPDF dựng PDF danh sách tương tác.
// customerNames map từ customer ID sang tên khách hàng.
func InteractionsPDF(interactions []crmmodels.Interaction, customerNames map[string]string, generatedAt time.Time) ([]byte, error) {
	columns := []pdfColumn{
		{Label: "Date", Width: 2, Align: align.Center},
		{Label: "Customer", Width: 3, Align: align.Left},
		{Label: "Type", Width: 1, Align: align.Center},
		{Label: "Summary", Width: 4, Align: align.Left},
		{Label: "Outcome", Width: 2, Align: align.Center},
	}

	m := newListDocument("Interactions", columns, generatedAt)
	for _, interaction := range interactions {
		customerName := customerNames[interaction.CustomerID.Hex()]
		if customerName == "" {
			customerName = "Unknown"
		}
		m.AddRows(dataRow(columns, []string{
			formatDate(interaction.Date), customerName, interaction.Type,
			interaction.Summary, interaction.Outcome,
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("lỗi sinh PDF danh sách tương tác: %w", err)
	}
	return doc.GetBytes(), nil
}
