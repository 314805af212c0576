// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu (admin user).
// Tách ra package riêng để tránh import cycle giữa auth/service và cmd.
package initsvc

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	authmodels "nexus_crm/internal/api/auth/models"
	authsvc "nexus_crm/internal/api/auth/service"
	basesvc "nexus_crm/internal/api/base/service"
)

// InitService khởi tạo dữ liệu mặc định cho hệ thống.
type InitService struct {
	userService *authsvc.UserService
}

// NewInitService tạo mới InitService.
func NewInitService() (*InitService, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &InitService{userService: userService}, nil
}

// InitAdminUser tạo user admin hệ thống từ cấu hình nếu chưa tồn tại.
// User được đánh dấu IsSystem để chặn xóa qua API.
func (s *InitService) InitAdminUser(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("thiếu ADMIN_EMAIL hoặc ADMIN_PASSWORD")
	}

	exists, err := s.userService.DocumentExists(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if exists {
		logrus.WithFields(logrus.Fields{"email": email}).Info("Admin user đã tồn tại, bỏ qua seed")
		return nil
	}

	hashed, err := authsvc.HashPassword(password)
	if err != nil {
		return err
	}

	admin := authmodels.User{
		Name:     "Administrator",
		Email:    email,
		Password: hashed,
		Role:     authmodels.RoleAdmin,
		Active:   true,
		IsSystem: true,
	}

	created, err := s.userService.InsertOne(basesvc.WithSystemDataInsertAllowed(ctx), admin)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"user_id": created.ID.Hex(), "email": created.Email}).Info("Đã seed admin user hệ thống")
	return nil
}
