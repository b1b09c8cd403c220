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

type WorkoutRepository interface {
	Create(ctx context.Context, workout *model.Workout) error
	FindByID(ctx context.Context, id string) (*model.Workout, error)
	FindAll(ctx context.Context) ([]model.Workout, error)
	Update(ctx context.Context, workout *model.Workout) error
	SoftDelete(ctx context.Context, id string) error
}

type pgWorkoutRepository struct {
	db *sql.DB
}

func NewPgWorkoutRepository(db *sql.DB) WorkoutRepository {
	return &pgWorkoutRepository{db: db}
}

const workoutColumns = `id, user_id, date, created_at, updated_at`

func scanWorkout(row interface{ Scan(...interface{}) error }) (*model.Workout, error) {
	workout := &model.Workout{}
	err := row.Scan(&workout.ID, &workout.UserID, &workout.Date, &workout.CreatedAt, &workout.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return workout, nil
}

func (r *pgWorkoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	query := `INSERT INTO workouts (id, user_id, date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, workout.ID, workout.UserID, workout.Date, workout.CreatedAt, workout.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgWorkoutRepository.Create: %w", err)
	}
	return nil
}

func (r *pgWorkoutRepository) FindByID(ctx context.Context, id string) (*model.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE id = $1 AND deleted_at IS NULL`
	workout, err := scanWorkout(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgWorkoutRepository.FindByID: %w", err)
	}
	return workout, nil
}

func (r *pgWorkoutRepository) FindAll(ctx context.Context) ([]model.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE deleted_at IS NULL ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgWorkoutRepository.FindAll query: %w", err)
	}
	defer rows.Close()

	workouts := []model.Workout{}
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("pgWorkoutRepository.FindAll scan: %w", err)
		}
		workouts = append(workouts, *workout)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgWorkoutRepository.FindAll rows.Err: %w", err)
	}
	return workouts, nil
}

func (r *pgWorkoutRepository) Update(ctx context.Context, workout *model.Workout) error {
	workout.UpdatedAt = time.Now().UTC()

	query := `UPDATE workouts SET date = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, workout.Date, workout.UpdatedAt, workout.ID)
	if err != nil {
		return fmt.Errorf("pgWorkoutRepository.Update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgWorkoutRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgWorkoutRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `UPDATE workouts SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("pgWorkoutRepository.SoftDelete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgWorkoutRepository.SoftDelete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
