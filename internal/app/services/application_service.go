package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/filestorage"
)

var (
	ErrResumeTooLarge = apperrors.NewValidationError("Resume file too large")
	ErrInvalidStatus  = apperrors.NewValidationError("Valid status required")
	ErrOfficerOnly    = apperrors.NewForbiddenError("Officer access required")
)

// ApplicationService runs the apply and review workflow
type ApplicationService struct {
	students       StudentStore
	jobs           JobStore
	applications   ApplicationStore
	resumes        filestorage.FileStorage
	maxResumeBytes int64
	now            Clock
	logger         zerolog.Logger
}

// NewApplicationService creates a new ApplicationService. maxResumeBytes <= 0
// disables the size check.
func NewApplicationService(
	students StudentStore,
	jobs JobStore,
	applications ApplicationStore,
	resumes filestorage.FileStorage,
	maxResumeBytes int64,
	now Clock,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		students:       students,
		jobs:           jobs,
		applications:   applications,
		resumes:        resumes,
		maxResumeBytes: maxResumeBytes,
		now:            clockOrNow(now),
		logger:         logger,
	}
}

func checkResume(resume *multipart.FileHeader, maxBytes int64) error {
	if resume == nil || resume.Size <= 0 {
		return apperrors.ErrResumeRequired
	}
	if maxBytes > 0 && resume.Size > maxBytes {
		return ErrResumeTooLarge
	}
	return nil
}

// Apply stores the resume and records an application of the student to the
// job. The stored file is removed again when the insert fails.
func (s *ApplicationService) Apply(ctx context.Context, studentID, jobID int64, resume *multipart.FileHeader) (int64, error) {
	if err := checkResume(resume, s.maxResumeBytes); err != nil {
		return 0, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return 0, err
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	if !job.IsEligibleFor(student, now) {
		return 0, apperrors.ErrNotEligible
	}

	applied, err := s.applications.HasApplied(ctx, studentID, jobID)
	if err != nil {
		return 0, err
	}
	if applied {
		return 0, apperrors.ErrAlreadyApplied
	}

	path, err := s.resumes.SaveUpload(studentID, resume)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to store resume")
		return 0, err
	}

	id, err := s.applications.Create(ctx, &models.Application{
		StudentID:  studentID,
		JobID:      jobID,
		ResumePath: path,
		Status:     models.StatusApplied,
		AppliedOn:  now,
	})
	if err != nil {
		if delErr := s.resumes.DeleteFile(path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("Failed to remove orphaned resume")
		}
		return 0, err
	}

	s.logger.Info().Int64("applicationID", id).Int64("studentID", studentID).Int64("jobID", jobID).Msg("Application submitted")
	return id, nil
}

// SetStatus moves an application to any of the four statuses
func (s *ApplicationService) SetStatus(ctx context.Context, applicationID int64, status string, actorRole models.RoleType) error {
	if actorRole != models.RoleOfficer {
		return ErrOfficerOnly
	}
	next := models.ApplicationStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return ErrInvalidStatus
	}

	if err := s.applications.UpdateStatus(ctx, applicationID, next); err != nil {
		return err
	}
	s.logger.Info().Int64("applicationID", applicationID).Str("status", string(next)).Msg("Application status changed")
	return nil
}

// ListForStudent returns the student's applications, newest first
func (s *ApplicationService) ListForStudent(ctx context.Context, studentID int64) ([]models.StudentApplication, error) {
	return s.applications.ListForStudent(ctx, studentID)
}

// ListAllForOfficer returns every application, newest first
func (s *ApplicationService) ListAllForOfficer(ctx context.Context) ([]models.OfficerApplication, error) {
	return s.applications.ListAll(ctx)
}
