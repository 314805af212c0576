// Package global chứa các biến dùng chung toàn process: validator, session MongoDB,
// cấu hình server, bảng tên collection và registry collection.
package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"nexus_crm/config"
	"nexus_crm/internal/registry"
)

// ColNames bảng tên các collection MongoDB của hệ thống.
type ColNames struct {
	Users        string // Người dùng hệ thống
	Customers    string // Khách hàng / lead
	Interactions string // Lịch sử tương tác với khách hàng
	Tasks        string // Công việc follow-up
}

var (
	// Validate validator dùng chung cho toàn bộ input
	Validate *validator.Validate

	// MongoDB_Session client MongoDB dùng chung
	MongoDB_Session *mongo.Client

	// MongoDB_ServerConfig cấu hình server được load lúc khởi động
	MongoDB_ServerConfig *config.Configuration

	// MongoDB_ColNames tên các collection
	MongoDB_ColNames = ColNames{
		Users:        "users",
		Customers:    "customers",
		Interactions: "interactions",
		Tasks:        "tasks",
	}

	// RegistryCollections registry chứa các collection đã đăng ký
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()
)
