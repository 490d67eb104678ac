// Package router đăng ký các route thuộc domain lead.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	leadhdl "estate_crm/internal/api/lead/handler"
	leadsvc "estate_crm/internal/api/lead/service"
	"estate_crm/internal/api/middleware"
	apirouter "estate_crm/internal/api/router"
)

// NewRegister trả về RegisterFunc cho domain lead với EventSink được inject.
// Đọc public, mọi thao tác ghi yêu cầu đăng nhập.
func NewRegister(sink leadsvc.EventSink) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		leadHandler, err := leadhdl.NewLeadHandler(sink)
		if err != nil {
			return fmt.Errorf("failed to create lead handler: %w", err)
		}

		v1.Get("/leads", leadHandler.HandleList)
		v1.Get("/leads/:id", leadHandler.HandleGet)

		authMiddleware := middleware.AuthMiddleware("")
		apirouter.RegisterRouteWithMiddleware(v1, "/leads", "POST", "", []fiber.Handler{authMiddleware}, leadHandler.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/leads", "PUT", "/:id", []fiber.Handler{authMiddleware}, leadHandler.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/leads", "PATCH", "/:id/status", []fiber.Handler{authMiddleware}, leadHandler.HandleUpdateStatus)
		apirouter.RegisterRouteWithMiddleware(v1, "/leads", "PATCH", "/:id/assign", []fiber.Handler{authMiddleware}, leadHandler.HandleAssign)
		apirouter.RegisterRouteWithMiddleware(v1, "/leads", "POST", "/:id/activities", []fiber.Handler{authMiddleware}, leadHandler.HandleAddActivity)
		apirouter.RegisterRouteWithMiddleware(v1, "/leads", "DELETE", "/:id", []fiber.Handler{authMiddleware}, leadHandler.HandleDelete)
		return nil
	}
}
