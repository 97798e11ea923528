package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
)

// JobService is what JobController needs for postings
type JobService interface {
	CreatePosting(ctx context.Context, officerID int64, req *dto.CreatePostingRequest) (int64, error)
	ListEligibleJobs(ctx context.Context, studentID int64) ([]*models.JobPosting, error)
	ListPostingsByOfficer(ctx context.Context, officerID int64) ([]*models.JobPosting, error)
	SetPostingStatus(ctx context.Context, officerID, jobID int64, status string) error
}

// ApplyService submits applications
type ApplyService interface {
	Apply(ctx context.Context, studentID, jobID int64, resume *multipart.FileHeader) (int64, error)
}

// multipartOverhead leaves room for form boundaries and small text fields
const multipartOverhead = 1 << 20

// JobController serves the job directory to students and officers
type JobController struct {
	jobService     JobService
	applyService   ApplyService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService JobService, applyService ApplyService, maxUploadBytes int64, logger zerolog.Logger) *JobController {
	return &JobController{
		jobService:     jobService,
		applyService:   applyService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListEligibleJobs godoc
// @Summary Jobs the student can apply to
// @Description Open postings with a deadline of today or later, matching the student's branch and CGPA, not yet applied to. Newest first.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.JobPosting
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Student access required"
// @Router /jobs [get]
func (jc *JobController) ListEligibleJobs(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}

	jobs, err := jc.jobService.ListEligibleJobs(c.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Apply godoc
// @Summary Apply to a job
// @Description Multipart upload with the resume in the "resume" field.
// @Tags jobs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param resume formData file true "Resume"
// @Success 201 {object} dto.ApplyResponse
// @Failure 400 {object} dto.ErrorResponse "Resume file required"
// @Failure 403 {object} dto.ErrorResponse "Not eligible for this job"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied to this job"
// @Router /jobs/{id}/apply [post]
func (jc *JobController) Apply(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id", "job id")
	if !ok {
		return
	}

	resume, err := jc.formFile(c, "resume")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	id, err := jc.applyService.Apply(c.Request.Context(), studentID, jobID, resume)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ApplyResponse{
		Message:       "Applied successfully",
		ApplicationID: id,
	})
}

// formFile returns the named upload, or nil when it is absent. Bodies above
// the upload limit are reported as a too large resume.
func (jc *JobController) formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	return limitedFormFile(c, field, jc.maxUploadBytes)
}

func limitedFormFile(c *gin.Context, field string, maxBytes int64) (*multipart.FileHeader, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	}

	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, services.ErrResumeTooLarge
		}
		// A missing field or a non multipart body means no file
		return nil, nil
	}
	return fh, nil
}

// ListPostings godoc
// @Summary The officer's postings
// @Tags postings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.JobPosting
// @Failure 403 {object} dto.ErrorResponse "Officer access required"
// @Router /officer/postings [get]
func (jc *JobController) ListPostings(c *gin.Context) {
	officerID, ok := principal(c)
	if !ok {
		return
	}

	jobs, err := jc.jobService.ListPostingsByOfficer(c.Request.Context(), officerID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// CreatePosting godoc
// @Summary Create a job posting
// @Description Skills may be a JSON array, a JSON encoded array string or a comma separated string.
// @Tags postings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostingRequest true "Posting"
// @Success 201 {object} dto.CreatePostingResponse
// @Failure 400 {object} dto.ErrorResponse "All fields required"
// @Failure 403 {object} dto.ErrorResponse "Officer access required"
// @Router /officer/postings [post]
func (jc *JobController) CreatePosting(c *gin.Context) {
	officerID, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreatePostingRequest
	if !middleware.BindJSON(c, &req, dto.MissingFieldsMessage) {
		return
	}

	id, err := jc.jobService.CreatePosting(c.Request.Context(), officerID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatePostingResponse{
		Message: "Job posted successfully",
		JobID:   id,
	})
}

// SetPostingStatus godoc
// @Summary Open or close a posting
// @Tags postings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.UpdatePostingStatusRequest true "Status"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /officer/postings/{id}/status [put]
func (jc *JobController) SetPostingStatus(c *gin.Context) {
	officerID, ok := principal(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id", "job id")
	if !ok {
		return
	}

	var req dto.UpdatePostingStatusRequest
	if !middleware.BindJSON(c, &req, "status must be Open or Closed") {
		return
	}

	if err := jc.jobService.SetPostingStatus(c.Request.Context(), officerID, jobID, req.Status); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Posting status updated successfully"})
}
