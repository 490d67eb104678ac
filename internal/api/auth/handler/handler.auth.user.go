// Package authhdl - Handler xác thực và quản lý người dùng.
package authhdl

import (
	"fmt"
	"strconv"

	authdto "estate_crm/internal/api/auth/dto"
	models "estate_crm/internal/api/auth/models"
	authsvc "estate_crm/internal/api/auth/service"
	basehdl "estate_crm/internal/api/base/handler"
	basesvc "estate_crm/internal/api/base/service"
	"estate_crm/internal/common"
	"estate_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các request xác thực và quản lý người dùng
type UserHandler struct {
	userService *authsvc.UserService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &UserHandler{
		userService: userService,
	}, nil
}

// sanitizeUser xóa các trường nhạy cảm trước khi trả về client
func sanitizeUser(user *models.User) *models.User {
	user.Password = ""
	user.Salt = ""
	user.Tokens = nil
	return user
}

// HandleRegister xử lý đăng ký người dùng mới
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.UserRegisterInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.Register(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("register", c, map[string]interface{}{"email": user.Email})
		basehdl.HandleResponse(c, sanitizeUser(user), nil)
		return nil
	})
}

// HandleLogin xử lý đăng nhập bằng email/mật khẩu
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.UserLoginInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.Login(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("login", c, map[string]interface{}{"email": user.Email})
		basehdl.HandleResponse(c, sanitizeUser(user), nil)
		return nil
	})
}

// HandleLoginWithGoogle xử lý đăng nhập bằng Google OAuth code
func (h *UserHandler) HandleLoginWithGoogle(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.GoogleLoginInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.LoginWithGoogle(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("login_google", c, map[string]interface{}{"email": user.Email})
		basehdl.HandleResponse(c, sanitizeUser(user), nil)
		return nil
	})
}

// HandleLogout xử lý đăng xuất người dùng
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID := c.Locals("user_id")
		if userID == nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthToken, "Chưa đăng nhập", common.StatusUnauthorized, nil))
			return nil
		}
		var input authdto.UserLogoutInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		objID, err := primitive.ObjectIDFromHex(userID.(string))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "User ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		err = h.userService.Logout(c.Context(), objID, &input)
		logger.LogAuth("logout", c, nil)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleGetProfile lấy thông tin profile của người dùng đang đăng nhập
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID := c.Locals("user_id")
		if userID == nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthToken, "Chưa đăng nhập", common.StatusUnauthorized, nil))
			return nil
		}
		objID, err := primitive.ObjectIDFromHex(userID.(string))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "User ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		user, err := h.userService.FindOneById(c.Context(), objID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, sanitizeUser(&user), nil)
		return nil
	})
}

// HandleUpdateProfile cập nhật thông tin profile
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID := c.Locals("user_id")
		if userID == nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthToken, "Chưa đăng nhập", common.StatusUnauthorized, nil))
			return nil
		}
		var input authdto.UserChangeInfoInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		objID, err := primitive.ObjectIDFromHex(userID.(string))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "User ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		update := &basesvc.UpdateData{Set: map[string]interface{}{}}
		if input.Name != "" {
			update.Set["name"] = input.Name
		}
		if input.Phone != "" {
			update.Set["phone"] = input.Phone
		}
		if input.AvatarURL != "" {
			update.Set["avatarUrl"] = input.AvatarURL
		}
		updatedUser, err := h.userService.UpdateById(c.Context(), objID, update)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, sanitizeUser(&updatedUser), nil)
		return nil
	})
}

// HandleListAgents trả về danh sách agent (dùng cho dropdown gán lead).
// Có page/limit trên query string thì trả về kết quả phân trang.
func (h *UserHandler) HandleListAgents(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		filter := map[string]interface{}{"role": models.RoleAgent}

		page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
		limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
		if page > 0 && limit > 0 {
			paginated, err := h.userService.FindWithPagination(c.Context(), filter, page, limit, nil)
			if err != nil {
				basehdl.HandleResponse(c, nil, err)
				return nil
			}
			for i := range paginated.Items {
				sanitizeUser(&paginated.Items[i])
			}
			basehdl.HandleResponse(c, paginated, nil)
			return nil
		}

		agents, err := h.userService.Find(c.Context(), filter, nil)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result := make([]*models.User, 0, len(agents))
		for i := range agents {
			result = append(result, sanitizeUser(&agents[i]))
		}
		basehdl.HandleResponse(c, result, nil)
		return nil
	})
}
