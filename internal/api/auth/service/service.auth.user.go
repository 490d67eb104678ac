// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"strconv"
	"time"

	authdto "estate_crm/internal/api/auth/dto"
	models "estate_crm/internal/api/auth/models"
	basesvc "estate_crm/internal/api/base/service"
	"estate_crm/internal/common"
	"estate_crm/internal/global"
	"estate_crm/internal/utility"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// googleUserInfoURL là endpoint lấy thông tin người dùng sau khi exchange code
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// generateSalt sinh salt ngẫu nhiên cho mỗi người dùng
func generateSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashPassword băm mật khẩu kèm salt bằng bcrypt
func hashPassword(password, salt string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// comparePassword so sánh mật khẩu với hash đã lưu
func comparePassword(hashedPassword, password, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password+salt)) == nil
}

// Register đăng ký người dùng mới.
// Người dùng đầu tiên của hệ thống tự động trở thành admin, các người dùng
// sau mặc định là agent.
func (s *UserService) Register(ctx context.Context, input *authdto.UserRegisterInput) (*models.User, error) {
	// Kiểm tra email đã tồn tại chưa (unique index vẫn là lớp bảo vệ cuối)
	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{"email": input.Email})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewError(common.ErrCodeValidationInput, "Email đã được sử dụng", common.StatusConflict, nil)
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể sinh salt", common.StatusInternalServerError, err)
	}
	hashedPassword, err := hashPassword(input.Password, salt)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể băm mật khẩu", common.StatusInternalServerError, err)
	}

	role := models.RoleAgent
	hasAdmin, err := s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{"role": models.RoleAdmin})
	if err == nil && !hasAdmin {
		role = models.RoleAdmin
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Salt:     salt,
		Phone:    input.Phone,
		Role:     role,
		Tokens:   []models.Token{},
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Email đã được sử dụng", common.StatusConflict, nil)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": created.ID.Hex(), "email": created.Email, "role": created.Role}).Info("Register: Đăng ký thành công")
	return &created, nil
}

// Login đăng nhập bằng email/mật khẩu, phát hành JWT mới cho thiết bị (hwid)
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !comparePassword(user.Password, input.Password, user.Salt) {
		logrus.WithFields(logrus.Fields{"email": input.Email}).Warn("Login: Sai mật khẩu")
		return nil, common.ErrInvalidCredentials
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}

	updatedUser, err := s.issueToken(ctx, &user, input.Hwid)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("Login: Đăng nhập thành công")
	return updatedUser, nil
}

// issueToken phát hành JWT mới, lưu vào field token và danh sách tokens theo hwid
func (s *UserService) issueToken(ctx context.Context, user *models.User, hwid string) (*models.User, error) {
	rdNumber := mathrand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(global.ServerConfig.JwtSecret, user.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, err
	}

	user.Token = tokenMap["token"]
	idTokenExist := -1
	for i, t := range user.Tokens {
		if t.Hwid == hwid {
			idTokenExist = i
			break
		}
	}
	if idTokenExist == -1 {
		user.Tokens = append(user.Tokens, models.Token{Hwid: hwid, JwtToken: tokenMap["token"]})
	} else {
		user.Tokens[idTokenExist].JwtToken = tokenMap["token"]
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  user.Token,
			"tokens": user.Tokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("issueToken: Lỗi khi cập nhật token vào user")
		return nil, err
	}
	return &updatedUser, nil
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	newTokens := make([]models.Token, 0)
	for _, t := range user.Tokens {
		if t.Hwid != input.Hwid {
			newTokens = append(newTokens, t)
		}
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// googleUserInfo là payload trả về từ Google userinfo endpoint
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// googleOAuthConfig dựng oauth2.Config từ server config
func googleOAuthConfig() *oauth2.Config {
	cfg := global.ServerConfig
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// LoginWithGoogle đăng nhập bằng Google OAuth authorization code.
// Exchange code lấy access token, lấy thông tin user từ Google, upsert user
// theo googleId/email rồi phát hành JWT như đăng nhập thường.
func (s *UserService) LoginWithGoogle(ctx context.Context, input *authdto.GoogleLoginInput) (*models.User, error) {
	oauthConfig := googleOAuthConfig()
	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Đăng nhập Google chưa được cấu hình", common.StatusServiceUnavailable, nil)
	}

	token, err := oauthConfig.Exchange(ctx, input.Code)
	if err != nil {
		logrus.WithError(err).Error("LoginWithGoogle: Lỗi exchange authorization code")
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Mã xác thực Google không hợp lệ", common.StatusUnauthorized, err)
	}

	client := oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		logrus.WithError(err).Error("LoginWithGoogle: Lỗi lấy thông tin user từ Google")
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Không thể lấy thông tin từ Google", common.StatusUnauthorized, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Không thể đọc thông tin từ Google", common.StatusUnauthorized, err)
	}
	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil || info.ID == "" {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Thông tin Google không hợp lệ", common.StatusUnauthorized, err)
	}

	// Tìm user hiện có theo googleId trước, fallback theo email để liên kết
	// tài khoản đã đăng ký bằng email/mật khẩu
	var existingUser *models.User
	if found, findErr := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"googleId": info.ID}, nil); findErr == nil {
		existingUser = &found
	} else if !errors.Is(findErr, common.ErrNotFound) {
		return nil, findErr
	}
	if existingUser == nil && info.Email != "" {
		if found, findErr := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": info.Email}, nil); findErr == nil {
			existingUser = &found
		} else if !errors.Is(findErr, common.ErrNotFound) {
			return nil, findErr
		}
	}

	updateData := &basesvc.UpdateData{Set: map[string]interface{}{
		"googleId": info.ID,
	}}
	if info.Name != "" {
		updateData.Set["name"] = info.Name
	}
	if info.Picture != "" {
		updateData.Set["avatarUrl"] = info.Picture
	}
	if info.Email != "" {
		updateData.Set["email"] = info.Email
	}
	updateData.SetOnInsert = map[string]interface{}{
		"role":   models.RoleAgent,
		"tokens": []models.Token{},
	}

	var filter bson.M
	if existingUser != nil {
		filter = bson.M{"_id": existingUser.ID}
	} else {
		filter = bson.M{"googleId": info.ID}
	}

	user, err := s.BaseServiceMongoImpl.Upsert(ctx, filter, updateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"filter": filter, "error": err.Error()}).Error("LoginWithGoogle: Lỗi khi gọi Upsert")
		return nil, err
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}

	updatedUser, err := s.issueToken(ctx, &user, input.Hwid)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("LoginWithGoogle: Đăng nhập thành công")
	return updatedUser, nil
}
