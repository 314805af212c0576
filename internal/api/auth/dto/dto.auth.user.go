package authdto

// UserRegisterInput đầu vào đăng ký người dùng.
type UserRegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager agent"`
}

// UserLoginInput đầu vào đăng nhập người dùng.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UserCreateInput đầu vào tạo người dùng (CRUD, chỉ admin).
type UserCreateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager agent"`
	Active   *bool  `json:"active" validate:"omitempty"`
}

// UserUpdateInput đầu vào cập nhật người dùng (CRUD, chỉ admin).
type UserUpdateInput struct {
	Name   string `json:"name" validate:"omitempty"`
	Email  string `json:"email" validate:"omitempty,email"`
	Role   string `json:"role" validate:"omitempty,oneof=admin manager agent"`
	Active *bool  `json:"active" validate:"omitempty"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin cá nhân.
type UserChangeInfoInput struct {
	Name string `json:"name"`
}

// UserFilter điều kiện lọc người dùng.
type UserFilter struct {
	Role   string `json:"role" validate:"omitempty,oneof=admin manager agent"`
	Active *bool  `json:"active" validate:"omitempty"`
	Search string `json:"search" validate:"omitempty"`
}
