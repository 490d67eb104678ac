package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	models "estate_crm/internal/api/auth/models"
	authsvc "estate_crm/internal/api/auth/service"
	"estate_crm/internal/common"
	"estate_crm/internal/logger"
	"estate_crm/internal/utility"
)

// AuthManager quản lý xác thực và phân quyền người dùng
type AuthManager struct {
	UserCRUD *authsvc.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &AuthManager{
		UserCRUD: userService,
		// Cache với thời gian sống 5 phút và thời gian dọn dẹp 10 phút
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// findUserByToken tìm user theo token, dùng cache để giảm tải truy vấn
func (am *AuthManager) findUserByToken(token string) (*models.User, error) {
	cacheKey := "auth_token:" + token
	if cached, found := am.Cache.Get(cacheKey); found {
		if user, ok := cached.(models.User); ok {
			return &user, nil
		}
	}

	// Ưu tiên query field "token" (token mới nhất) trước vì nó được cập nhật
	// mỗi lần login. Nếu không tìm thấy, query trong array "tokens" (theo hwid).
	user, err := am.UserCRUD.FindOne(context.Background(), bson.M{"token": token}, nil)
	if err != nil {
		user, err = am.UserCRUD.FindOne(context.Background(), bson.M{"tokens.jwtToken": token}, nil)
		if err != nil {
			return nil, err
		}
	}

	am.Cache.Set(cacheKey, user)
	return &user, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// requireRole = "" chỉ yêu cầu đăng nhập, requireRole = "admin" yêu cầu
// user có role admin.
func AuthMiddleware(requireRole string) fiber.Handler {
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		token := parts[1]

		user, err := authManager.findUserByToken(token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token not found in database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị block không
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", *user)

		// Nếu không yêu cầu role cụ thể, cho phép truy cập ngay
		if requireRole == "" {
			return c.Next()
		}

		if user.Role != requireRole {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":       user.ID.Hex(),
				"user_role":     user.Role,
				"required_role": requireRole,
				"path":          c.Path(),
			}).Warn("❌ [AUTH] User does not have required role")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Không có quyền truy cập. Vui lòng liên hệ quản trị viên.",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		return c.Next()
	}
}
