package dto

// RegisterStudentRequest is the body of POST /api/student/register
type RegisterStudentRequest struct {
	Name           string     `json:"name" binding:"required,max=100"`
	Email          string     `json:"email" binding:"required"`
	Password       string     `json:"password" binding:"required"`
	Branch         string     `json:"branch" binding:"required,max=100"`
	CGPA           *FlexFloat `json:"cgpa" binding:"required,gte=0,lte=10"`
	UniversityRoll string     `json:"university_roll" binding:"required,max=50"`
}

// RegisterOfficerRequest is the body of POST /api/officer/register
type RegisterOfficerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is shared by both login routes
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse acknowledges a registration
type RegisterResponse struct {
	Message   string `json:"message" example:"Student registered successfully"`
	StudentID int64  `json:"student_id,omitempty" example:"1"`
	OfficerID int64  `json:"officer_id,omitempty"`
}

// LoginResponse carries the session token and the principal's public fields.
// Student logins fill StudentID and UniversityRoll, officer logins OfficerID.
type LoginResponse struct {
	Token          string `json:"token"`
	TokenType      string `json:"token_type" example:"Bearer"`
	ExpiresIn      int64  `json:"expires_in" example:"28800"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	StudentID      int64  `json:"student_id,omitempty"`
	UniversityRoll string `json:"university_roll,omitempty"`
	OfficerID      int64  `json:"officer_id,omitempty"`
}
