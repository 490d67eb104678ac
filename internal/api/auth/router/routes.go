// Package router đăng ký các route thuộc domain auth: System, Auth, Users.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "estate_crm/internal/api/auth/handler"
	basehdl "estate_crm/internal/api/base/handler"
	"estate_crm/internal/api/middleware"
	apirouter "estate_crm/internal/api/router"
)

// Register đăng ký tất cả route auth (system, auth, users) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Các route public: đăng ký, đăng nhập
	router.Post("/auth/register", userHandler.HandleRegister)
	router.Post("/auth/login", userHandler.HandleLogin)
	router.Post("/auth/login/google", userHandler.HandleLoginWithGoogle)

	// Các route cần xác thực
	authOnlyMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUpdateProfile)

	// Danh sách agent để gán lead, chỉ cần đăng nhập
	agentsMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(router, "/agents", "GET", "", []fiber.Handler{agentsMiddleware}, userHandler.HandleListAgents)
	return nil
}
