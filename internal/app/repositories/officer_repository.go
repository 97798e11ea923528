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

// OfficerRepository handles database operations for placement officers
type OfficerRepository struct {
	db db.Pool
	sb squirrel.StatementBuilderType
}

// NewOfficerRepository creates a new OfficerRepository
func NewOfficerRepository(pool db.Pool) *OfficerRepository {
	return &OfficerRepository{db: pool, sb: newBuilder()}
}

// Create inserts an officer and returns the new id
func (r *OfficerRepository) Create(ctx context.Context, o *models.Officer) (int64, error) {
	sql, args, err := r.sb.Insert("officers").
		Columns("name", "email", "password_hash").
		Values(o.Name, o.Email, o.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create officer query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "officers_email_key") {
			return 0, apperrors.ErrOfficerExists
		}
		logger.Error().Err(err).Str("email", o.Email).Msg("Error creating officer")
		return 0, fmt.Errorf("error creating officer: %w", err)
	}
	return id, nil
}

func (r *OfficerRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Officer, error) {
	sql, args, err := r.sb.Select("id", "name", "email", "password_hash", "created_at").
		From("officers").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get officer query: %w", err)
	}

	o := &models.Officer{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfficerNotFound
		}
		return nil, fmt.Errorf("error getting officer: %w", err)
	}
	return o, nil
}

// GetByEmail retrieves an officer by login email
func (r *OfficerRepository) GetByEmail(ctx context.Context, email string) (*models.Officer, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByID retrieves an officer by id
func (r *OfficerRepository) GetByID(ctx context.Context, id int64) (*models.Officer, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}
