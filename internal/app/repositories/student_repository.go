package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/db"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/dberrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "name", "email", "password_hash", "branch", "cgpa",
	"university_roll", "resume_path", "created_at",
}

// StudentUpdate lists the profile columns to change. Nil fields are left
// untouched; a non-nil Skills replaces the whole skill set.
type StudentUpdate struct {
	Name           *string
	Email          *string
	Branch         *string
	CGPA           *float64
	UniversityRoll *string
	ResumePath     *string
	Skills         *[]string
}

func (u StudentUpdate) columns() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Branch != nil {
		set["branch"] = *u.Branch
	}
	if u.CGPA != nil {
		set["cgpa"] = *u.CGPA
	}
	if u.UniversityRoll != nil {
		set["university_roll"] = *u.UniversityRoll
	}
	if u.ResumePath != nil {
		set["resume_path"] = *u.ResumePath
	}
	return set
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db db.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(pool db.Pool) *StudentRepository {
	return &StudentRepository{db: pool, sb: newBuilder()}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Branch, &s.CGPA,
		&s.UniversityRoll, &s.ResumePath, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a student and returns the new id. Email and roll collisions
// become ErrStudentExists.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "password_hash", "branch", "cgpa", "university_roll").
		Values(s.Name, s.Email, s.PasswordHash, s.Branch, s.CGPA, s.UniversityRoll).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_email_key", "students_university_roll_key") {
			return 0, apperrors.ErrStudentExists
		}
		logger.Error().Err(err).Str("email", s.Email).Msg("Error creating student")
		return 0, fmt.Errorf("error creating student: %w", err)
	}
	return id, nil
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return s, nil
}

// GetByEmail retrieves a student by login email, without skills
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByID retrieves a student with skills
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s, err := r.getOne(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	return r.withSkills(ctx, s)
}

// GetByRoll retrieves a student with skills by university roll
func (r *StudentRepository) GetByRoll(ctx context.Context, roll string) (*models.Student, error) {
	s, err := r.getOne(ctx, squirrel.Eq{"university_roll": roll})
	if err != nil {
		return nil, err
	}
	return r.withSkills(ctx, s)
}

func (r *StudentRepository) withSkills(ctx context.Context, s *models.Student) (*models.Student, error) {
	skills, err := loadSkills(ctx, r.db, r.sb, studentSkillLink, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.Skills = skills[s.ID]
	return s, nil
}

// List returns every student ordered by roll, with skills
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").OrderBy("university_roll").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	ids := []int64{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	rows.Close()

	skills, err := loadSkills(ctx, r.db, r.sb, studentSkillLink, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		s.Skills = skills[s.ID]
	}
	return students, nil
}

// UpdateProfile applies the update and skill replacement in one transaction
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int64, upd StudentUpdate) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if set := upd.columns(); len(set) > 0 {
			sql, args, err := r.sb.Update("students").SetMap(set).Where(squirrel.Eq{"id": id}).ToSql()
			if err != nil {
				return fmt.Errorf("failed to build update student query: %w", err)
			}
			tag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				if dberrors.IsDuplicateConstraintError(err, "students_email_key", "students_university_roll_key") {
					return apperrors.ErrStudentExists
				}
				logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student profile")
				return fmt.Errorf("error updating student: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return apperrors.ErrStudentNotFound
			}
		} else {
			var exists bool
			err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists)
			if err != nil {
				return fmt.Errorf("error checking student: %w", err)
			}
			if !exists {
				return apperrors.ErrStudentNotFound
			}
		}

		if upd.Skills != nil {
			if err := replaceSkills(ctx, tx, r.sb, studentSkillLink, id, *upd.Skills); err != nil {
				return err
			}
		}
		return nil
	})
}
