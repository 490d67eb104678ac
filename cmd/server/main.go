package main

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"estate_crm/internal/api/audit"
	"estate_crm/internal/delivery"
	"estate_crm/internal/global"
	"estate_crm/internal/logger"
	"estate_crm/internal/realtime"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục (collection names, validator, config, database)
	InitGlobal()

	// Khởi tạo registry collections
	InitRegistry()

	// Đăng ký subscriber ghi audit log cho mọi thay đổi dữ liệu
	audit.RegisterSubscriber()

	log := logger.GetAppLogger()

	// Hub websocket cho dashboard + kênh email chốt deal, gom vào một sink
	// để inject vào lead service
	hub := realtime.NewHub()
	emailChannel, err := delivery.NewEmailChannel()
	if err != nil {
		log.WithError(err).Error("Failed to create email channel, continuing without closed-deal email")
		emailChannel = nil
	}
	var sink *delivery.MultiSink
	if emailChannel != nil {
		sink = delivery.NewMultiSink(hub, emailChannel)
	} else {
		sink = delivery.NewMultiSink(hub)
	}

	// Khởi tạo app với toàn bộ route và middleware
	app := InitFiberApp(hub, sink)

	// Khởi động server
	cfg := global.ServerConfig
	log.WithFields(map[string]interface{}{
		"address": cfg.Address,
	}).Info("Starting Fiber server...")

	if err := app.Listen(cfg.Address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}
