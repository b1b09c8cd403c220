package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wlog/internal/common"
	"wlog/internal/domain/model"
)

// WorkoutExerciseRepository deletes rows for real: unlike the other
// tables, workout_exercises does not use soft delete.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, entry *model.WorkoutExercise) error
	FindByID(ctx context.Context, id string) (*model.WorkoutExercise, error)
	FindAll(ctx context.Context) ([]model.WorkoutExercise, error)
	Update(ctx context.Context, entry *model.WorkoutExercise) error
	Delete(ctx context.Context, id string) error
	CountByExerciseID(ctx context.Context, exerciseID string) (int, error)
}

type pgWorkoutExerciseRepository struct {
	db *sql.DB
}

func NewPgWorkoutExerciseRepository(db *sql.DB) WorkoutExerciseRepository {
	return &pgWorkoutExerciseRepository{db: db}
}

const workoutExerciseColumns = `id, workout_id, exercise_id, set_count, repetition_count, weight, created_at, updated_at`

func scanWorkoutExercise(row interface{ Scan(...interface{}) error }) (*model.WorkoutExercise, error) {
	entry := &model.WorkoutExercise{}
	err := row.Scan(&entry.ID, &entry.WorkoutID, &entry.ExerciseID, &entry.SetCount, &entry.RepetitionCount, &entry.Weight, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *pgWorkoutExerciseRepository) Create(ctx context.Context, entry *model.WorkoutExercise) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `INSERT INTO workout_exercises (id, workout_id, exercise_id, set_count, repetition_count, weight, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.WorkoutID, entry.ExerciseID, entry.SetCount, entry.RepetitionCount, entry.Weight, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgWorkoutExerciseRepository.Create: %w", err)
	}
	return nil
}

func (r *pgWorkoutExerciseRepository) FindByID(ctx context.Context, id string) (*model.WorkoutExercise, error) {
	query := `SELECT ` + workoutExerciseColumns + ` FROM workout_exercises WHERE id = $1`
	entry, err := scanWorkoutExercise(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgWorkoutExerciseRepository.FindByID: %w", err)
	}
	return entry, nil
}

func (r *pgWorkoutExerciseRepository) FindAll(ctx context.Context) ([]model.WorkoutExercise, error) {
	query := `SELECT ` + workoutExerciseColumns + ` FROM workout_exercises ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgWorkoutExerciseRepository.FindAll query: %w", err)
	}
	defer rows.Close()

	entries := []model.WorkoutExercise{}
	for rows.Next() {
		entry, err := scanWorkoutExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("pgWorkoutExerciseRepository.FindAll scan: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgWorkoutExerciseRepository.FindAll rows.Err: %w", err)
	}
	return entries, nil
}

func (r *pgWorkoutExerciseRepository) Update(ctx context.Context, entry *model.WorkoutExercise) error {
	entry.UpdatedAt = time.Now().UTC()

	query := `UPDATE workout_exercises SET set_count = $1, repetition_count = $2, weight = $3, updated_at = $4
	          WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, entry.SetCount, entry.RepetitionCount, entry.Weight, entry.UpdatedAt, entry.ID)
	if err != nil {
		return fmt.Errorf("pgWorkoutExerciseRepository.Update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgWorkoutExerciseRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgWorkoutExerciseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM workout_exercises WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pgWorkoutExerciseRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgWorkoutExerciseRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgWorkoutExerciseRepository) CountByExerciseID(ctx context.Context, exerciseID string) (int, error) {
	query := `SELECT COUNT(*) FROM workout_exercises WHERE exercise_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, exerciseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgWorkoutExerciseRepository.CountByExerciseID: %w", err)
	}
	return count, nil
}
