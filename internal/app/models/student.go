package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64     `json:"student_id" db:"id" example:"1"`
	Name           string    `json:"name" db:"name" example:"Asha Rao"`
	Email          string    `json:"email" db:"email" example:"asha@college.edu"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Branch         string    `json:"branch" db:"branch" example:"CSE"`
	CGPA           float64   `json:"cgpa" db:"cgpa" example:"8.5"`
	UniversityRoll string    `json:"university_roll" db:"university_roll" example:"CSE2021001"`
	ResumePath     *string   `json:"-" db:"resume_path"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Populated when needed
	Skills []string `json:"skills,omitempty"`
}

// HasResume reports whether a resume path has been recorded
func (s *Student) HasResume() bool {
	return s.ResumePath != nil && *s.ResumePath != ""
}
