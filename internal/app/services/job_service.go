package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/validation"
)

// JobService manages postings and the eligibility filter
type JobService struct {
	jobs     JobStore
	students StudentStore
	now      Clock
	logger   zerolog.Logger
}

// NewJobService creates a new JobService
func NewJobService(jobs JobStore, students StudentStore, now Clock, logger zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, students: students, now: clockOrNow(now), logger: logger}
}

// CreatePosting validates and stores a posting owned by officerID
func (s *JobService) CreatePosting(ctx context.Context, officerID int64, req *dto.CreatePostingRequest) (int64, error) {
	if req.MinCGPA == nil {
		return 0, apperrors.NewValidationError(dto.MissingFieldsMessage)
	}
	if err := requireFields(req.Title, req.Description, req.BranchEligibility, req.PackageStipend, req.Deadline); err != nil {
		return 0, err
	}

	minCGPA := req.MinCGPA.Float64()
	if err := validation.ValidateCGPA("min_cgpa", minCGPA); err != nil {
		return 0, apperrors.NewValidationError(err.Error())
	}
	deadline, err := models.ParseDate(req.Deadline)
	if err != nil {
		return 0, apperrors.NewValidationError("deadline must be a date in YYYY-MM-DD format")
	}

	job := &models.JobPosting{
		OfficerID:         officerID,
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		BranchEligibility: strings.TrimSpace(req.BranchEligibility),
		MinCGPA:           minCGPA,
		PackageStipend:    strings.TrimSpace(req.PackageStipend),
		Deadline:          deadline,
		Status:            models.PostingOpen,
		Skills:            models.NormalizeSkills(req.Skills.Names),
	}

	id, err := s.jobs.CreateWithSkills(ctx, job)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("jobID", id).Int64("officerID", officerID).Int("skills", len(job.Skills)).Msg("Job posted")
	return id, nil
}

// ListEligibleJobs returns the postings the student can apply to today
func (s *JobService) ListEligibleJobs(ctx context.Context, studentID int64) ([]*models.JobPosting, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListEligible(ctx, student, s.now())
}

// ListPostingsByOfficer returns the officer's postings, newest first
func (s *JobService) ListPostingsByOfficer(ctx context.Context, officerID int64) ([]*models.JobPosting, error) {
	return s.jobs.ListByOfficer(ctx, officerID)
}

// SetPostingStatus opens or closes a posting. Only its owner may do so.
func (s *JobService) SetPostingStatus(ctx context.Context, officerID, jobID int64, status string) error {
	next := models.PostingStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return apperrors.NewValidationError("status must be Open or Closed")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.OfficerID != officerID {
		return apperrors.NewForbiddenError("Only the posting officer can change this posting")
	}

	if err := s.jobs.SetStatus(ctx, jobID, next); err != nil {
		return err
	}
	s.logger.Info().Int64("jobID", jobID).Str("status", string(next)).Msg("Posting status changed")
	return nil
}

// CloseExpiredPostings closes open postings whose deadline has passed
func (s *JobService) CloseExpiredPostings(ctx context.Context) (int64, error) {
	n, err := s.jobs.CloseExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("closed", n).Msg("Closed expired postings")
	}
	return n, nil
}
