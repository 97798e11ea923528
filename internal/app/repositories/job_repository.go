package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/db"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

var jobColumns = []string{
	"j.id", "j.officer_id", "j.title", "j.description", "j.branch_eligibility",
	"j.min_cgpa", "j.package_stipend", "j.deadline", "j.status", "j.created_at",
}

// JobRepository handles database operations for job postings
type JobRepository struct {
	db db.Pool
	sb squirrel.StatementBuilderType
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(pool db.Pool) *JobRepository {
	return &JobRepository{db: pool, sb: newBuilder()}
}

func scanJob(row pgx.Row) (*models.JobPosting, error) {
	j := &models.JobPosting{}
	var status string
	err := row.Scan(&j.ID, &j.OfficerID, &j.Title, &j.Description, &j.BranchEligibility,
		&j.MinCGPA, &j.PackageStipend, &j.Deadline.Time, &status, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	j.Status = models.PostingStatus(status)
	return j, nil
}

// CreateWithSkills inserts the posting and links its skills in one transaction
func (r *JobRepository) CreateWithSkills(ctx context.Context, job *models.JobPosting) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("job_postings").
			Columns("officer_id", "title", "description", "branch_eligibility",
				"min_cgpa", "package_stipend", "deadline", "status").
			Values(job.OfficerID, job.Title, job.Description, job.BranchEligibility,
				job.MinCGPA, job.PackageStipend, job.Deadline.Time, string(models.PostingOpen)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create job query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return fmt.Errorf("error creating job posting: %w", err)
		}
		return linkSkills(ctx, tx, r.sb, jobSkillLink, id, job.Skills)
	})
	if err != nil {
		logger.Error().Err(err).Int64("officerID", job.OfficerID).Msg("Error creating job posting")
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a posting with its skills
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	sql, args, err := r.sb.Select(jobColumns...).From("job_postings j").Where(squirrel.Eq{"j.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job query: %w", err)
	}

	job, err := scanJob(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, fmt.Errorf("error getting job posting: %w", err)
	}

	skills, err := loadSkills(ctx, r.db, r.sb, jobSkillLink, []int64{id})
	if err != nil {
		return nil, err
	}
	job.Skills = skills[id]
	return job, nil
}

// ListByOfficer returns an officer's postings, newest first
func (r *JobRepository) ListByOfficer(ctx context.Context, officerID int64) ([]*models.JobPosting, error) {
	query := r.sb.Select(jobColumns...).
		From("job_postings j").
		Where(squirrel.Eq{"j.officer_id": officerID}).
		OrderBy("j.created_at DESC", "j.id DESC")
	return r.list(ctx, query)
}

// ListEligible returns the open postings the student may still apply to on
// the given day, newest first. Branch matching ignores case; "All" admits
// every branch.
func (r *JobRepository) ListEligible(ctx context.Context, student *models.Student, today time.Time) ([]*models.JobPosting, error) {
	branch := strings.TrimSpace(student.Branch)
	query := r.sb.Select(jobColumns...).
		From("job_postings j").
		Where(squirrel.Eq{"j.status": string(models.PostingOpen)}).
		Where(squirrel.GtOrEq{"j.deadline": models.DateOf(today)}).
		Where(squirrel.LtOrEq{"j.min_cgpa": student.CGPA}).
		Where("(LOWER(TRIM(j.branch_eligibility)) = 'all' OR (? <> '' AND POSITION(LOWER(?) IN LOWER(j.branch_eligibility)) > 0))", branch, branch).
		Where("NOT EXISTS (SELECT 1 FROM applications a WHERE a.job_id = j.id AND a.student_id = ?)", student.ID).
		OrderBy("j.created_at DESC", "j.id DESC")
	return r.list(ctx, query)
}

func (r *JobRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.JobPosting, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list jobs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing job postings: %w", err)
	}
	defer rows.Close()

	jobs := []*models.JobPosting{}
	ids := []int64{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning job row: %w", err)
		}
		jobs = append(jobs, job)
		ids = append(ids, job.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}
	rows.Close()

	skills, err := loadSkills(ctx, r.db, r.sb, jobSkillLink, ids)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		job.Skills = skills[job.ID]
	}
	return jobs, nil
}

// SetStatus changes a posting's status
func (r *JobRepository) SetStatus(ctx context.Context, id int64, status models.PostingStatus) error {
	sql, args, err := r.sb.Update("job_postings").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build job status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// CloseExpired closes open postings whose deadline is before today and
// returns how many changed.
func (r *JobRepository) CloseExpired(ctx context.Context, today time.Time) (int64, error) {
	sql, args, err := r.sb.Update("job_postings").
		Set("status", string(models.PostingClosed)).
		Where(squirrel.Eq{"status": string(models.PostingOpen)}).
		Where(squirrel.Lt{"deadline": models.DateOf(today)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build close expired query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error closing expired postings: %w", err)
	}
	return tag.RowsAffected(), nil
}
