package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	authsvc "nexus_crm/internal/api/auth/service"
	basesvc "nexus_crm/internal/api/base/service"
	"nexus_crm/internal/api/events"
	"nexus_crm/internal/global"
	"nexus_crm/internal/logger"
	"nexus_crm/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Khởi tạo logger với cấu hình mặc định
	// Logger sẽ tự động đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Log thông tin khởi tạo bằng logger mới
	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// initAdminCheck gắn hàm kiểm tra quyền admin cho tầng base service (bảo vệ dữ liệu IsSystem).
func initAdminCheck() {
	log := logger.GetAppLogger()

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to create user service: %v", err)
	}
	basesvc.SetIsAdminFromContextFunc(userService.IsAdmin)
}

// initDataChangeAudit đăng ký handler ghi mọi thay đổi dữ liệu CRUD vào audit log.
func initDataChangeAudit() {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		logger.GetAuditLogger().WithFields(logrus.Fields{
			"action":        "crud_" + e.Operation,
			"resource_type": e.CollectionName,
			"resource_id":   events.GetIDHex(e.Document),
			"updated_at":    events.GetInt64Field(e.Document, "UpdatedAt"),
		}).Info("Audit log")
	})
}

// initScheduler khởi tạo và chạy scheduler cho các job nền CRM.
// Trả về hàm dừng scheduler (no-op nếu scheduler tắt).
func initScheduler(ctx context.Context) func() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	if !cfg.Scheduler_Enabled {
		log.Info("⏰ [SCHEDULER] Scheduler disabled")
		return func() {}
	}

	scheduler := worker.NewScheduler(worker.NewRealClock())
	if err := worker.RegisterCrmJobs(scheduler, cfg); err != nil {
		log.WithError(err).Error("⏰ [SCHEDULER] Failed to register jobs, continuing without scheduler")
		return func() {}
	}

	scheduler.Start(ctx)
	log.Info("⏰ [SCHEDULER] Scheduler started successfully")
	return scheduler.Stop
}

// main_thread khởi tạo và chạy Fiber server
func main_thread() {
	// Khởi tạo app với cấu hình
	app := InitFiberApp()

	// Khởi động server với cấu hình listen
	cfg := global.MongoDB_ServerConfig
	address := cfg.Address

	log := logger.GetAppLogger()
	log.Info("Starting Fiber server...")

	// Helper function để resolve đường dẫn tương đối từ thư mục gốc dự án
	resolvePath := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		currentDir, err := os.Getwd()
		if err != nil {
			return path
		}
		for {
			envDir := filepath.Join(currentDir, "config", "env")
			if _, err := os.Stat(envDir); err == nil {
				return filepath.Join(currentDir, path)
			}
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				return path
			}
			currentDir = parentDir
		}
	}

	// Kiểm tra xem có bật TLS không
	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		// Resolve đường dẫn certificate và key
		certPath := resolvePath(cfg.TLSCertFile)
		keyPath := resolvePath(cfg.TLSKeyFile)

		// Kiểm tra file certificate và key tồn tại
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			log.Fatalf("TLS certificate file not found: %s (resolved from: %s)", certPath, cfg.TLSCertFile)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			log.Fatalf("TLS key file not found: %s (resolved from: %s)", keyPath, cfg.TLSKeyFile)
		}

		// Load certificate và key
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			log.Fatalf("Error loading TLS certificate: %v", err)
		}

		// Tạo listener với TLS
		ln, err := net.Listen("tcp", address)
		if err != nil {
			log.Fatalf("Error creating listener: %v", err)
		}

		// Cấu hình TLS
		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}

		// Wrap listener với TLS
		tlsListener := tls.NewListener(ln, tlsConfig)

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    certPath,
			"key":     keyPath,
		}).Info("Starting server with HTTPS/TLS")

		// Khởi động server với TLS listener
		if err := app.Listener(tlsListener); err != nil {
			log.Fatalf("Error in Fiber Listener with TLS: %v", err)
		}
	} else {
		// Khởi động server HTTP thông thường
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")

		listenConfig := fiber.ListenConfig{}
		if err := app.Listen(address, listenConfig); err != nil {
			log.Fatalf("Error in Fiber Listen: %v", err)
		}
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Gắn hàm kiểm tra admin cho tầng base service
	initAdminCheck()

	// Đăng ký audit log cho các thay đổi dữ liệu
	initDataChangeAudit()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	// Khởi tạo và chạy scheduler (background jobs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopScheduler := initScheduler(ctx)
	defer stopScheduler()

	// Chạy Fiber server trên main thread
	main_thread()
}
