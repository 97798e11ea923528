package models

import "time"

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "Applied"
	StatusShortlisted ApplicationStatus = "Shortlisted"
	StatusSelected    ApplicationStatus = "Selected"
	StatusRejected    ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists every accepted status value
var ApplicationStatuses = []ApplicationStatus{StatusApplied, StatusShortlisted, StatusSelected, StatusRejected}

// Valid reports whether s is one of the four statuses. Any valid status may
// follow any other.
func (s ApplicationStatus) Valid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Application defines the application model based on the 'applications' table
type Application struct {
	ID         int64             `json:"application_id" db:"id"`
	StudentID  int64             `json:"student_id" db:"student_id"`
	JobID      int64             `json:"job_id" db:"job_id"`
	ResumePath string            `json:"-" db:"resume_path"`
	Status     ApplicationStatus `json:"status" db:"status"`
	AppliedOn  time.Time         `json:"applied_on" db:"applied_on"`
}

// StudentApplication is an application joined with its job title
type StudentApplication struct {
	ApplicationID int64             `json:"application_id"`
	JobID         int64             `json:"job_id"`
	Title         string            `json:"title"`
	Status        ApplicationStatus `json:"status"`
	AppliedOn     time.Time         `json:"applied_on"`
}

// OfficerApplication is an application joined with student and job details
type OfficerApplication struct {
	ApplicationID  int64             `json:"application_id"`
	JobID          int64             `json:"job_id"`
	StudentID      int64             `json:"student_id"`
	StudentName    string            `json:"student_name"`
	UniversityRoll string            `json:"university_roll"`
	JobTitle       string            `json:"job_title"`
	Status         ApplicationStatus `json:"status"`
	AppliedOn      time.Time         `json:"applied_on"`
}
