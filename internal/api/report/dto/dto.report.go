// Package reportdto - các cấu trúc trả về của domain report (dashboard).
package reportdto

import (
	crmmodels "nexus_crm/internal/api/crm/models"
)

// StatusCount số lượng theo một trạng thái.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TypeCount số lượng theo một loại.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// MonthCount số lượng theo tháng (label dạng "Jan 2006").
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// CustomerCounts số lượng khách hàng theo trạng thái.
type CustomerCounts struct {
	Total    int64 `json:"total"`
	Lead     int64 `json:"lead"`
	Customer int64 `json:"customer"`
	Inactive int64 `json:"inactive"`
}

// TaskCounts số lượng task theo trạng thái.
type TaskCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

// InteractionCounts số lượng tương tác theo loại.
type InteractionCounts struct {
	Total   int64 `json:"total"`
	Email   int64 `json:"email"`
	Call    int64 `json:"call"`
	Meeting int64 `json:"meeting"`
}

// DashboardRecent các danh sách gần đây trên dashboard.
type DashboardRecent struct {
	Customers     []crmmodels.Customer    `json:"customers"`
	Interactions  []crmmodels.Interaction `json:"interactions"`
	UpcomingTasks []crmmodels.Task        `json:"upcomingTasks"`
	OverdueTasks  []crmmodels.Task        `json:"overdueTasks"`
}

// DashboardStats dữ liệu tổng quan của dashboard.
type DashboardStats struct {
	Counts struct {
		Customers    CustomerCounts    `json:"customers"`
		Tasks        TaskCounts        `json:"tasks"`
		Interactions InteractionCounts `json:"interactions"`
	} `json:"counts"`
	Recent DashboardRecent `json:"recent"`
}

// ActivityItem một mục trong dòng hoạt động gần đây, gộp từ cả ba collection.
type ActivityItem struct {
	Type   string      `json:"type"`   // customer | interaction | task
	Action string      `json:"action"` // created | logged | completed
	Date   int64       `json:"date"`
	Data   interface{} `json:"data"`
}

// ChartData dữ liệu các biểu đồ của dashboard.
type ChartData struct {
	CustomerStatus      []StatusCount `json:"customerStatus"`
	InteractionTypes    []TypeCount   `json:"interactionTypes"`
	MonthlyInteractions []MonthCount  `json:"monthlyInteractions"`
	LeadDistribution    []MonthCount  `json:"leadDistribution"`
}

// MonthlyConversion tỷ lệ chuyển đổi của một tháng.
type MonthlyConversion struct {
	Month       string  `json:"month"`
	Rate        float64 `json:"rate"`
	Leads       int64   `json:"leads"`
	Conversions int64   `json:"conversions"`
}

// ConversionStats thống kê chuyển đổi lead thành customer.
type ConversionStats struct {
	ConversionRate     float64             `json:"conversionRate"`
	AvgDaysToConvert   int                 `json:"avgDaysToConvert"`
	MonthlyConversions []MonthlyConversion `json:"monthlyConversions"`
	TotalLeads         int64               `json:"totalLeads"`
	TotalCustomers     int64               `json:"totalCustomers"`
}
