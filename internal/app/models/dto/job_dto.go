package dto

// CreatePostingRequest is the body of POST /api/officer/postings
type CreatePostingRequest struct {
	Title             string     `json:"title" binding:"required,max=200"`
	Description       string     `json:"description" binding:"required"`
	BranchEligibility string     `json:"branch_eligibility" binding:"required,max=255"`
	MinCGPA           *FlexFloat `json:"min_cgpa" binding:"required,gte=0,lte=10"`
	PackageStipend    string     `json:"package_stipend" binding:"required,max=100"`
	Deadline          string     `json:"deadline" binding:"required" example:"2026-12-31"`
	Skills            SkillList  `json:"skills"`
}

// CreatePostingResponse acknowledges a new posting
type CreatePostingResponse struct {
	Message string `json:"message" example:"Job posted successfully"`
	JobID   int64  `json:"job_id" example:"12"`
}

// UpdatePostingStatusRequest opens or closes a posting
type UpdatePostingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Open Closed"`
}
