package authsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authContextKey string

const (
	userIDContextKey   authContextKey = "auth_user_id"
	userRoleContextKey authContextKey = "auth_user_role"
)

// SetUserIDToContext lưu userID vào context để các service phía dưới kiểm tra quyền.
func SetUserIDToContext(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserIDFromContext lấy userID từ context. Trả về false nếu context không có userID.
func GetUserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(primitive.ObjectID)
	return userID, ok
}

// SetUserRoleToContext lưu role của user vào context.
func SetUserRoleToContext(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, userRoleContextKey, role)
}

// GetUserRoleFromContext lấy role của user từ context.
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleContextKey).(string)
	return role, ok
}
