package dto

import "github.com/yigit/placement/internal/app/models"

// StudentProfileResponse is a student's profile as seen by the student or an officer
type StudentProfileResponse struct {
	StudentID      int64    `json:"student_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Branch         string   `json:"branch"`
	CGPA           float64  `json:"cgpa"`
	UniversityRoll string   `json:"university_roll"`
	Skills         []string `json:"skills"`
	ResumeUploaded bool     `json:"resume_uploaded"`
}

// NewStudentProfileResponse builds the profile view of a student
func NewStudentProfileResponse(s *models.Student, resumeUploaded bool) *StudentProfileResponse {
	skills := s.Skills
	if skills == nil {
		skills = []string{}
	}
	return &StudentProfileResponse{
		StudentID:      s.ID,
		Name:           s.Name,
		Email:          s.Email,
		Branch:         s.Branch,
		CGPA:           s.CGPA,
		UniversityRoll: s.UniversityRoll,
		Skills:         skills,
		ResumeUploaded: resumeUploaded,
	}
}

// UpdateProfileRequest is the JSON form of PUT /api/student/profile. Blank
// values are ignored; the multipart form is mapped onto the same struct.
type UpdateProfileRequest struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Branch         string     `json:"branch"`
	CGPA           *FlexFloat `json:"cgpa"`
	UniversityRoll string     `json:"university_roll"`
	Skills         SkillList  `json:"skills"`
}

// UpdateProfileResponse acknowledges a profile update
type UpdateProfileResponse struct {
	Message string                  `json:"message" example:"Profile updated successfully"`
	Profile *StudentProfileResponse `json:"profile"`
}
