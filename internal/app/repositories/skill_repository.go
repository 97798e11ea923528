package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/placement/internal/db"
	"github.com/yigit/placement/internal/pkg/logger"
)

// skillLink describes a join table between an owner and skills
type skillLink struct {
	table       string
	ownerColumn string
}

var (
	studentSkillLink = skillLink{table: "student_skills", ownerColumn: "student_id"}
	jobSkillLink     = skillLink{table: "job_skills", ownerColumn: "job_id"}
)

// SkillRepository manages the shared skill catalog
type SkillRepository struct {
	db db.Pool
	sb squirrel.StatementBuilderType
}

func NewSkillRepository(pool db.Pool) *SkillRepository {
	return &SkillRepository{db: pool, sb: newBuilder()}
}

// EnsureSkills inserts the names that are not in the catalog yet and returns
// how many were added.
func (r *SkillRepository) EnsureSkills(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	ins := r.sb.Insert("skills").Columns("name")
	for _, name := range names {
		ins = ins.Values(name)
	}
	sql, args, err := ins.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build ensure skills query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int("count", len(names)).Msg("Error inserting skills")
		return 0, fmt.Errorf("error inserting skills: %w", err)
	}
	return tag.RowsAffected(), nil
}

// upsertSkillIDs returns the catalog id of every name, creating missing ones.
func upsertSkillIDs(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		sql, args, err := sb.Insert("skills").Columns("name").Values(name).
			Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build skill upsert query: %w", err)
		}

		var id int64
		if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("error upserting skill %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// linkSkills attaches names to an owner, creating catalog rows as needed.
func linkSkills(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, link skillLink, ownerID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	ids, err := upsertSkillIDs(ctx, q, sb, names)
	if err != nil {
		return err
	}

	ins := sb.Insert(link.table).Columns(link.ownerColumn, "skill_id")
	for _, id := range ids {
		ins = ins.Values(ownerID, id)
	}
	sql, args, err := ins.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build skill link query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error linking skills to %s %d: %w", link.ownerColumn, ownerID, err)
	}
	return nil
}

// replaceSkills swaps an owner's skill set for names.
func replaceSkills(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, link skillLink, ownerID int64, names []string) error {
	sql, args, err := sb.Delete(link.table).Where(squirrel.Eq{link.ownerColumn: ownerID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build skill unlink query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing skills of %s %d: %w", link.ownerColumn, ownerID, err)
	}
	return linkSkills(ctx, q, sb, link, ownerID, names)
}

// loadSkills returns skill names per owner, alphabetically.
func loadSkills(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, link skillLink, ownerIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	ownerCol := "l." + link.ownerColumn
	sql, args, err := sb.Select(ownerCol, "s.name").
		From(link.table + " l").
		Join("skills s ON s.id = l.skill_id").
		Where(squirrel.Eq{ownerCol: ownerIDs}).
		OrderBy(ownerCol, "s.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load skills query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID int64
		var name string
		if err := rows.Scan(&ownerID, &name); err != nil {
			return nil, fmt.Errorf("error scanning skill row: %w", err)
		}
		out[ownerID] = append(out[ownerID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}
	return out, nil
}
