// Package models - các model thuộc domain CRM (Customer, Interaction, Task).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái vòng đời của khách hàng.
// Trạng thái hiện tại luôn được suy ra từ entry cuối cùng của statusHistory.
const (
	StatusLead     = "lead"     // Khách tiềm năng, chưa chuyển đổi
	StatusCustomer = "customer" // Đã chuyển đổi thành khách hàng
	StatusInactive = "inactive" // Không còn tương tác
)

// ValidCustomerStatuses danh sách trạng thái hợp lệ
var ValidCustomerStatuses = []string{StatusLead, StatusCustomer, StatusInactive}

// Các mức độ rủi ro churn.
const (
	ChurnLevelLow     = "Low"
	ChurnLevelMedium  = "Medium"
	ChurnLevelHigh    = "High"
	ChurnLevelUnknown = "Unknown" // Không đủ dữ liệu để đánh giá (lỗi đọc dữ liệu)
)

// StatusHistoryEntry một lần chuyển trạng thái trong lịch sử.
// UpdatedBy rỗng (zero ObjectID) nghĩa là chuyển tự động bởi hệ thống.
type StatusHistoryEntry struct {
	Status    string             `json:"status" bson:"status"`
	Date      int64              `json:"date" bson:"date"`
	UpdatedBy primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Address địa chỉ của khách hàng.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// ChurnRisk kết quả đánh giá rủi ro churn gần nhất (tính on-demand, lưu cache trên document).
type ChurnRisk struct {
	Score   int      `json:"score" bson:"score"`
	Level   string   `json:"level" bson:"level"`
	Factors []string `json:"factors,omitempty" bson:"factors,omitempty"`
}

// Customer định nghĩa mô hình khách hàng CRM.
// StatusHistory là append-only: mọi thay đổi trạng thái đều thêm entry mới,
// không bao giờ sửa hoặc xóa entry cũ. Status luôn bằng entry cuối cùng.
// Xóa khách hàng KHÔNG cascade sang interactions / tasks liên quan.
type Customer struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name" index:"single"`
	Email         string               `json:"email" bson:"email" index:"unique"`
	Phone         string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Company       string               `json:"company,omitempty" bson:"company,omitempty" index:"single"`
	Status        string               `json:"status" bson:"status" index:"single" default:"lead"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory" bson:"statusHistory"`
	Notes         string               `json:"notes,omitempty" bson:"notes,omitempty"`
	Tags          []string             `json:"tags,omitempty" bson:"tags,omitempty" index:"single"`
	Address       Address              `json:"address,omitempty" bson:"address,omitempty"`
	AssignedTo    primitive.ObjectID   `json:"assignedTo" bson:"assignedTo" index:"single"`
	CreatedBy     primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	LastContact   int64                `json:"lastContact,omitempty" bson:"lastContact,omitempty"`
	LeadScore     int                  `json:"leadScore,omitempty" bson:"leadScore,omitempty"`
	ChurnRisk     *ChurnRisk           `json:"churnRisk,omitempty" bson:"churnRisk,omitempty"`
	CreatedAt     int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64                `json:"updatedAt" bson:"updatedAt"`
}

// IsValidCustomerStatus kiểm tra trạng thái có hợp lệ không
func IsValidCustomerStatus(status string) bool {
	for _, s := range ValidCustomerStatuses {
		if s == status {
			return true
		}
	}
	return false
}
