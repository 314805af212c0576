package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "nexus_crm/internal/api/auth/models"
	authsvc "nexus_crm/internal/api/auth/service"
	"nexus_crm/internal/common"
	"nexus_crm/internal/global"
	"nexus_crm/internal/logger"
	"nexus_crm/internal/utility"
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
	newManager := new(AuthManager)

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	newManager.UserCRUD = userService

	// Khởi tạo cache với thời gian sống 5 phút và thời gian dọn dẹp 10 phút
	newManager.Cache = utility.NewCache(5*time.Minute, 10*time.Minute)

	return newManager, nil
}

// getUserByID lấy user từ cache hoặc database
func (am *AuthManager) getUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	cacheKey := "auth_user:" + userID.Hex()
	if cached, found := am.Cache.Get(cacheKey); found {
		user := cached.(models.User)
		return &user, nil
	}

	user, err := am.UserCRUD.FindOneById(ctx, userID)
	if err != nil {
		return nil, err
	}

	am.Cache.Set(cacheKey, user)
	return &user, nil
}

// InvalidateUserCache xóa cache của một user (gọi khi user bị khóa, đổi role, logout)
func (am *AuthManager) InvalidateUserCache(userID primitive.ObjectID) {
	am.Cache.Delete("auth_user:" + userID.Hex())
}

// AuthMiddleware middleware xác thực cho Fiber.
// Xác thực JWT token, nạp user và kiểm tra role nếu requireRoles được chỉ định.
// requireRoles rỗng nghĩa là chỉ cần đăng nhập, không giới hạn role.
func AuthMiddleware(requireRoles ...string) fiber.Handler {
	// Sử dụng singleton instance của AuthManager
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
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

		// Xác thực chữ ký và thời hạn token
		claims, err := authsvc.ParseToken(global.MongoDB_ServerConfig.JwtSecret, token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token validation failed")
			HandleErrorResponse(c, err)
			return nil
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Nạp user để kiểm tra token còn hiệu lực (logout / đổi mật khẩu sẽ thu hồi)
		user, err := authManager.getUserByID(c.Context(), userID)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] User not found for token")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if user.Token != token {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị khóa không
		if !user.Active {
			HandleErrorResponse(c, common.ErrUserBlocked)
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_role", user.Role)
		c.Locals("user", *user)

		// Nếu không yêu cầu role cụ thể, cho phép truy cập ngay
		if len(requireRoles) == 0 {
			return c.Next()
		}

		// Kiểm tra role của user
		hasRole := false
		for _, role := range requireRoles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":        user.ID.Hex(),
				"user_email":     user.Email,
				"user_role":      user.Role,
				"required_roles": requireRoles,
				"path":           c.Path(),
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
