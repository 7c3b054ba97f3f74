package dto

// CreateUserRequest creates a user account
type CreateUserRequest struct {
	Username string `json:"username" example:"registrar"`
	Password string `json:"password" example:"changeme"`
	Role     string `json:"role,omitempty" example:"staff"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"registrar"`
	Role     string `json:"role" example:"staff"`
}
