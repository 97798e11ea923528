package dto

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message" example:"Student registered successfully"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
