package models

import "time"

// Notification is one student's copy of a broadcast
type Notification struct {
	ID        int64     `json:"notification_id" db:"id"`
	StudentID int64     `json:"-" db:"student_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SentNotification records one broadcast by an officer
type SentNotification struct {
	ID        int64     `json:"id" db:"id"`
	OfficerID int64     `json:"-" db:"officer_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
