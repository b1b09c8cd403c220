package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wlog/internal/app/policy"
	"wlog/internal/common"
	"wlog/internal/common/security"
	"wlog/internal/domain/model"
	"wlog/internal/domain/repository"

	"github.com/google/uuid"
)

type WorkoutService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository) *WorkoutService {
	return &WorkoutService{workoutRepo: workoutRepo, userRepo: userRepo}
}

type CreateWorkoutRequest struct {
	UserID string     `json:"user_id"`
	Date   *time.Time `json:"date"`
}

func (s *WorkoutService) List(ctx context.Context, claims *security.Claims) ([]model.Workout, error) {
	if !policy.CanListWorkouts(claims) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	workouts, err := s.workoutRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

func (s *WorkoutService) Get(ctx context.Context, claims *security.Claims, id string) (*model.Workout, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	workout, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("workout does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find workout: %w", err)
	}

	if !policy.CanAccessWorkout(claims, workout.UserID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	return workout, nil
}

func (s *WorkoutService) Create(ctx context.Context, claims *security.Claims, req CreateWorkoutRequest) (*model.Workout, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if req.UserID == "" || !validUUID(req.UserID) {
		return nil, fmt.Errorf("user id is missing or invalid: %w", common.ErrBadRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanCreateWorkout(claims, req.UserID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	workout := &model.Workout{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Date:   date,
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}
	return workout, nil
}

func (s *WorkoutService) Patch(ctx context.Context, claims *security.Claims, id string, updates PatchUpdates) (*model.Workout, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	workout, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("workout does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find workout: %w", err)
	}

	if !policy.CanAccessWorkout(claims, workout.UserID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates were provided: %w", common.ErrBadRequest)
	}
	// Only the date is mutable on a workout.
	if err := rejectKeys(updates, "id", "user_id"); err != nil {
		return nil, err
	}

	if raw, present := updates["date"]; present {
		// UnmarshalJSON treats a literal null as a no-op, which would
		// persist the zero time.
		var date time.Time
		if err := date.UnmarshalJSON(raw); err != nil || date.IsZero() {
			return nil, fmt.Errorf("date is not valid: %w", common.ErrBadRequest)
		}
		workout.Date = date.UTC()
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}
	return workout, nil
}

func (s *WorkoutService) Delete(ctx context.Context, claims *security.Claims, id string) error {
	if claims == nil {
		return fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	workout, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("workout does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to find workout: %w", err)
	}

	if !policy.CanAccessWorkout(claims, workout.UserID) {
		return fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	if err := s.workoutRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil
}
