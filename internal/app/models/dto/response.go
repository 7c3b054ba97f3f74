package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message" example:"Student updated successfully"`
}

// CreatedResponse is returned by create endpoints
type CreatedResponse struct {
	Message string      `json:"message" example:"Student added successfully"`
	ID      interface{} `json:"id" swaggertype:"string" example:"12"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
