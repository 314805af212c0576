// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các role của hệ thống. Role quyết định phạm vi dữ liệu user được thao tác.
const (
	RoleAdmin   = "admin"   // Toàn quyền, quản lý user và dữ liệu hệ thống
	RoleManager = "manager" // Quản lý khách hàng, task của cả team
	RoleAgent   = "agent"   // Chỉ thao tác trên khách hàng / task được gán cho mình
)

// ValidRoles danh sách role hợp lệ
var ValidRoles = []string{RoleAdmin, RoleManager, RoleAgent}

// User định nghĩa mô hình người dùng.
// Token chứa token xác thực mới nhất của người dùng (logout sẽ xóa token này).
// IsSystem đánh dấu user hệ thống (admin seed), không cho phép xóa.
type User struct {
	_Relationships struct{}           `relationship:"collection:customers,field:assignedTo,message:Khong the xoa user vi co %d khach hang dang duoc gan cho user nay. Vui long chuyen khach hang sang user khac truoc.|collection:tasks,field:assignedTo,message:Khong the xoa user vi co %d task dang duoc gan cho user nay. Vui long chuyen hoac xoa cac task truoc."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Password       string             `json:"-" bson:"password,omitempty"`
	Role           string             `json:"role" bson:"role" index:"single" default:"agent"`
	Active         bool               `json:"active" bson:"active" default:"true"`
	IsSystem       bool               `json:"isSystem" bson:"isSystem"`
	Token          string             `json:"-" bson:"token"`
	LastLogin      int64              `json:"lastLogin" bson:"lastLogin"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsValidRole kiểm tra role có hợp lệ không
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
