package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wlog/internal/common"
	"wlog/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *model.Exercise) error
	FindByID(ctx context.Context, id string) (*model.Exercise, error)
	FindBySlug(ctx context.Context, slug string) (*model.Exercise, error)
	FindAll(ctx context.Context) ([]model.Exercise, error)
	Update(ctx context.Context, exercise *model.Exercise) error
	SoftDelete(ctx context.Context, id string) error
}

type pgExerciseRepository struct {
	db *sql.DB
}

func NewPgExerciseRepository(db *sql.DB) ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

const exerciseColumns = `id, name, slug, description, created_at, updated_at`

func scanExercise(row interface{ Scan(...interface{}) error }) (*model.Exercise, error) {
	exercise := &model.Exercise{}
	err := row.Scan(&exercise.ID, &exercise.Name, &exercise.Slug, &exercise.Description, &exercise.CreatedAt, &exercise.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return exercise, nil
}

func (r *pgExerciseRepository) Create(ctx context.Context, exercise *model.Exercise) error {
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	query := `INSERT INTO exercises (id, name, slug, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, exercise.ID, exercise.Name, exercise.Slug, exercise.Description, exercise.CreatedAt, exercise.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("exercise with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgExerciseRepository.Create: %w", err)
	}
	return nil
}

func (r *pgExerciseRepository) FindByID(ctx context.Context, id string) (*model.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1 AND deleted_at IS NULL`
	exercise, err := scanExercise(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExerciseRepository.FindByID: %w", err)
	}
	return exercise, nil
}

func (r *pgExerciseRepository) FindBySlug(ctx context.Context, slug string) (*model.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE slug = $1 AND deleted_at IS NULL`
	exercise, err := scanExercise(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExerciseRepository.FindBySlug: %w", err)
	}
	return exercise, nil
}

func (r *pgExerciseRepository) FindAll(ctx context.Context) ([]model.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE deleted_at IS NULL ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.FindAll query: %w", err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("pgExerciseRepository.FindAll scan: %w", err)
		}
		exercises = append(exercises, *exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.FindAll rows.Err: %w", err)
	}
	return exercises, nil
}

func (r *pgExerciseRepository) Update(ctx context.Context, exercise *model.Exercise) error {
	exercise.UpdatedAt = time.Now().UTC()

	query := `UPDATE exercises SET name = $1, slug = $2, description = $3, updated_at = $4
	          WHERE id = $5 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, exercise.Name, exercise.Slug, exercise.Description, exercise.UpdatedAt, exercise.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("exercise with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgExerciseRepository.Update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgExerciseRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `UPDATE exercises SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.SoftDelete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.SoftDelete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
