// Package router đăng ký các route thuộc domain property.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"estate_crm/internal/api/middleware"
	propertyhdl "estate_crm/internal/api/property/handler"
	apirouter "estate_crm/internal/api/router"
)

// Register đăng ký tất cả route property lên v1.
// Đọc public, ghi yêu cầu đăng nhập.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	propertyHandler, err := propertyhdl.NewPropertyHandler()
	if err != nil {
		return fmt.Errorf("failed to create property handler: %w", err)
	}

	v1.Get("/properties", propertyHandler.HandleList)
	v1.Get("/properties/:id", propertyHandler.HandleGet)

	authMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(v1, "/properties", "POST", "", []fiber.Handler{authMiddleware}, propertyHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/properties", "PUT", "/:id", []fiber.Handler{authMiddleware}, propertyHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(v1, "/properties", "DELETE", "/:id", []fiber.Handler{authMiddleware}, propertyHandler.HandleDelete)
	apirouter.RegisterRouteWithMiddleware(v1, "/properties", "POST", "/:id/images", []fiber.Handler{authMiddleware}, propertyHandler.HandleUploadImage)
	apirouter.RegisterRouteWithMiddleware(v1, "/properties", "DELETE", "/:id/images", []fiber.Handler{authMiddleware}, propertyHandler.HandleDeleteImage)
	return nil
}
