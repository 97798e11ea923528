package dto

// ApplyResponse acknowledges an application
type ApplyResponse struct {
	Message       string `json:"message" example:"Applied successfully"`
	ApplicationID int64  `json:"application_id" example:"3"`
}

// UpdateApplicationStatusRequest is the body of PUT /api/officer/applications/{id}/status.
// The value is checked by the service so every caller gets the same error.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}
