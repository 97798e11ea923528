package models

import "time"

// Officer is a placement officer who owns postings and sends broadcasts
type Officer struct {
	ID           int64     `json:"officer_id" db:"id" example:"1"`
	Name         string    `json:"name" db:"name" example:"R. Menon"`
	Email        string    `json:"email" db:"email" example:"placements@college.edu"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
