// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdto "nexus_crm/internal/api/auth/dto"
	models "nexus_crm/internal/api/auth/models"
	basesvc "nexus_crm/internal/api/base/service"
	"nexus_crm/internal/common"
	"nexus_crm/internal/global"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

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

// CreateToken tạo JWT token cho user với thời hạn từ config.
func CreateToken(secret string, user *models.User) (string, error) {
	expireHours := 720
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.JwtExpireHours > 0 {
		expireHours = global.MongoDB_ServerConfig.JwtExpireHours
	}

	claims := models.JwtToken{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			Subject:   user.ID.Hex(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Không thể tạo token", common.StatusInternalServerError, err)
	}
	return signed, nil
}

// ParseToken xác thực và giải mã JWT token. Trả về claims nếu token hợp lệ.
func ParseToken(secret, tokenString string) (*models.JwtToken, error) {
	claims := &models.JwtToken{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký token không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// HashPassword băm mật khẩu bằng bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}
	return string(hashed), nil
}

// Register đăng ký người dùng mới với mật khẩu được băm bcrypt.
// Role mặc định là agent nếu không chỉ định.
func (s *UserService) Register(ctx context.Context, input *authdto.UserRegisterInput) (*models.User, error) {
	// Kiểm tra email đã tồn tại chưa
	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{"email": input.Email})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Email đã được sử dụng", common.StatusConflict, nil)
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleAgent
	}
	if !models.IsValidRole(role) {
		return nil, common.NewError(common.ErrCodeValidationInput, "Role không hợp lệ", common.StatusBadRequest, nil)
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
		Active:   true,
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": created.ID.Hex(), "email": created.Email, "role": created.Role}).Info("Register: Đăng ký người dùng thành công")
	return &created, nil
}

// Login đăng nhập bằng email + mật khẩu. Trả về user kèm JWT token mới.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, string, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", common.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, "", common.ErrUserBlocked
	}

	token, err := CreateToken(global.MongoDB_ServerConfig.JwtSecret, &user)
	if err != nil {
		return nil, "", err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":     token,
			"lastLogin": time.Now().UnixMilli(),
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("Login: Lỗi khi cập nhật token vào user")
		return nil, "", err
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("Login: Đăng nhập thành công")
	return &updatedUser, token, nil
}

// Logout đăng xuất người dùng (xóa token hiện tại, các request sau với token cũ sẽ bị từ chối).
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token": "",
		},
	}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// ChangePassword đổi mật khẩu sau khi xác thực mật khẩu cũ. Token hiện tại bị thu hồi.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return common.NewError(common.ErrCodeAuthCredentials, "Mật khẩu cũ không chính xác", common.StatusUnauthorized, nil)
	}

	hashed, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"password": hashed,
			"token":    "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// ChangeInfo thay đổi thông tin cá nhân của người dùng.
func (s *UserService) ChangeInfo(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangeInfoInput) (*models.User, error) {
	updateData := &basesvc.UpdateData{Set: make(map[string]interface{})}
	if input.Name != "" {
		updateData.Set["name"] = input.Name
	}
	if len(updateData.Set) == 0 {
		user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &user, nil
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangeActive bật/tắt trạng thái hoạt động của user. Khóa user sẽ thu hồi token hiện tại.
func (s *UserService) ChangeActive(ctx context.Context, userID primitive.ObjectID, active bool) (*models.User, error) {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"active": active,
		},
	}
	if !active {
		updateData.Set["token"] = ""
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// IsAdmin kiểm tra user trong context có phải admin không.
// Hàm này được đăng ký vào base service qua SetIsAdminFromContextFunc.
func (s *UserService) IsAdmin(ctx context.Context) (bool, error) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return false, nil
	}
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// DeleteUser xóa user sau khi kiểm tra các ràng buộc quan hệ (khách hàng, task đang gán).
func (s *UserService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	if err := basesvc.ValidateBeforeDeleteUser(ctx, userID); err != nil {
		return err
	}
	return s.BaseServiceMongoImpl.DeleteById(ctx, userID)
}
