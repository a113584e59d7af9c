package dto

// LoginRequest carries user credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest creates a user account. ShopID is required for
// cashiers and optional otherwise.
type RegisterUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role" binding:"required"`
	ShopID   *string `json:"shopId"`
}

// SetUserActiveRequest enables or disables an account.
type SetUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
