package main

import (
	"context"

	"nexus_crm/internal/api/initsvc"
	"nexus_crm/internal/global"
	"nexus_crm/internal/logger"
)

// InitDefaultData khởi tạo dữ liệu mặc định: seed admin user khi chạy ở chế độ init.
func InitDefaultData() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	if !cfg.InitMode {
		log.Info("InitMode tắt, bỏ qua seed dữ liệu mặc định")
		return
	}

	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	if err := initService.InitAdminUser(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to initialize admin user: %v", err)
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
