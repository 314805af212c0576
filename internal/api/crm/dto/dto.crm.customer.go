// Package crmdto - các DTO đầu vào / filter thuộc domain CRM.
// Mọi trường ngày tháng đều là Unix milliseconds.
package crmdto

import (
	crmmodels "nexus_crm/internal/api/crm/models"
)

// CustomerCreateInput đầu vào tạo khách hàng.
// AssignedTo / CreatedBy là chuỗi hex ObjectID, được transform sang primitive.ObjectID.
type CustomerCreateInput struct {
	Name       string                `json:"name" validate:"required"`
	Email      string                `json:"email" validate:"required,email"`
	Phone      string                `json:"phone" validate:"omitempty"`
	Company    string                `json:"company" validate:"omitempty"`
	Status     string                `json:"status" validate:"omitempty,oneof=lead customer inactive"`
	Notes      string                `json:"notes" validate:"omitempty"`
	Tags       []string              `json:"tags" validate:"omitempty"`
	Address    *crmmodels.Address    `json:"address" validate:"omitempty"`
	AssignedTo string                `json:"assignedTo" validate:"required" transform:"str_objectid"`
	CreatedBy  string                `json:"createdBy" validate:"omitempty" transform:"str_objectid,optional"`
}

// CustomerUpdateInput đầu vào cập nhật khách hàng.
// Không chứa Status / StatusHistory: thay đổi trạng thái phải đi qua POST /customers/:id/status.
type CustomerUpdateInput struct {
	Name       string             `json:"name" validate:"omitempty"`
	Email      string             `json:"email" validate:"omitempty,email"`
	Phone      string             `json:"phone" validate:"omitempty"`
	Company    string             `json:"company" validate:"omitempty"`
	Notes      string             `json:"notes" validate:"omitempty"`
	Tags       []string           `json:"tags" validate:"omitempty"`
	Address    *crmmodels.Address `json:"address" validate:"omitempty"`
	AssignedTo string             `json:"assignedTo" validate:"omitempty" transform:"str_objectid,optional"`
}

// CustomerStatusChangeInput đầu vào chuyển trạng thái khách hàng.
type CustomerStatusChangeInput struct {
	Status string `json:"status" validate:"required,oneof=lead customer inactive"`
	Notes  string `json:"notes" validate:"omitempty"`
}

// CustomerFilter điều kiện lọc khách hàng (typed filter, dùng cho POST /customers/find).
// Search hỗ trợ mini-syntax "field:value" (ví dụ "company:Acme"), ngoài ra
// tìm theo name / email / company / phone (regex, không phân biệt hoa thường).
type CustomerFilter struct {
	Status     string   `json:"status" validate:"omitempty,oneof=lead customer inactive"`
	Search     string   `json:"search" validate:"omitempty,max=200"`
	Company    string   `json:"company" validate:"omitempty"`
	Tags       []string `json:"tags" validate:"omitempty"`
	AssignedTo string   `json:"assignedTo" validate:"omitempty,len=24,hexadecimal"`
	DateFrom   int64    `json:"dateFrom" validate:"omitempty,min=0"`
	DateTo     int64    `json:"dateTo" validate:"omitempty,min=0"`
	Page       int64    `json:"page" validate:"omitempty,min=1"`
	Limit      int64    `json:"limit" validate:"omitempty,min=1,max=100"`
	SortBy     string   `json:"sortBy" validate:"omitempty,oneof=name email company status createdAt updatedAt lastContact leadScore"`
	SortOrder  string   `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}
