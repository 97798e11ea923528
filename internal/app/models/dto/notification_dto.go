package dto

// BroadcastRequest is the body of POST /api/officer/notifications
type BroadcastRequest struct {
	Message string `json:"message"`
}

// BroadcastResponse reports how many students received the broadcast
type BroadcastResponse struct {
	Message    string `json:"message" example:"Notification sent"`
	Recipients int64  `json:"recipients" example:"120"`
}
