package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/db"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/dberrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

// ApplicationRepository handles database operations for job applications
type ApplicationRepository struct {
	db db.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(pool db.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: pool, sb: newBuilder()}
}

// Create inserts an application. A second application to the same job is
// ErrAlreadyApplied, a vanished job is ErrJobNotFound.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) (int64, error) {
	sql, args, err := r.sb.Insert("applications").
		Columns("student_id", "job_id", "resume_path", "status", "applied_on").
		Values(app.StudentID, app.JobID, app.ResumePath, string(app.Status), app.AppliedOn).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create application query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "applications_student_job_key"):
			return 0, apperrors.ErrAlreadyApplied
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Int64("studentID", app.StudentID).Int64("jobID", app.JobID).Msg("Error creating application")
		return 0, fmt.Errorf("error creating application: %w", err)
	}
	return id, nil
}

// HasApplied reports whether the student already applied to the job
func (r *ApplicationRepository) HasApplied(ctx context.Context, studentID, jobID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE student_id = $1 AND job_id = $2)`,
		studentID, jobID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking application: %w", err)
	}
	return exists, nil
}

// UpdateStatus sets the status of one application
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	sql, args, err := r.sb.Update("applications").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build application status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationMissing
	}
	return nil
}

// ListForStudent returns a student's applications with job titles, newest first
func (r *ApplicationRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.StudentApplication, error) {
	sql, args, err := r.sb.Select("a.id", "a.job_id", "j.title", "a.status", "a.applied_on").
		From("applications a").
		Join("job_postings j ON j.id = a.job_id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.applied_on DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	apps := []models.StudentApplication{}
	for rows.Next() {
		var a models.StudentApplication
		var status string
		if err := rows.Scan(&a.ApplicationID, &a.JobID, &a.Title, &status, &a.AppliedOn); err != nil {
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		a.Status = models.ApplicationStatus(status)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}

// ListAll returns every application with student and job details, newest first
func (r *ApplicationRepository) ListAll(ctx context.Context) ([]models.OfficerApplication, error) {
	sql, args, err := r.sb.Select("a.id", "a.job_id", "s.id", "s.name", "s.university_roll",
		"j.title", "a.status", "a.applied_on").
		From("applications a").
		Join("students s ON s.id = a.student_id").
		Join("job_postings j ON j.id = a.job_id").
		OrderBy("a.applied_on DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	apps := []models.OfficerApplication{}
	for rows.Next() {
		var a models.OfficerApplication
		var status string
		err := rows.Scan(&a.ApplicationID, &a.JobID, &a.StudentID, &a.StudentName,
			&a.UniversityRoll, &a.JobTitle, &status, &a.AppliedOn)
		if err != nil {
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		a.Status = models.ApplicationStatus(status)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}
