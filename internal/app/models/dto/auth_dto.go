package dto

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"secret"`
}

// LoginResponse is returned after a successful login; tokens travel in cookies
type LoginResponse struct {
	Message  string `json:"message" example:"Login successful"`
	Username string `json:"username" example:"admin"`
	Role     string `json:"role" example:"admin"`
}
