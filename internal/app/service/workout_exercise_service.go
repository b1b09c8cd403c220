package service

import (
	"context"
	"errors"
	"fmt"

	"wlog/internal/app/policy"
	"wlog/internal/common"
	"wlog/internal/common/security"
	"wlog/internal/domain/model"
	"wlog/internal/domain/repository"

	"github.com/google/uuid"
)

type WorkoutExerciseService struct {
	workoutExerciseRepo repository.WorkoutExerciseRepository
	workoutRepo         repository.WorkoutRepository
	exerciseRepo        repository.ExerciseRepository
}

func NewWorkoutExerciseService(
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
) *WorkoutExerciseService {
	return &WorkoutExerciseService{
		workoutExerciseRepo: workoutExerciseRepo,
		workoutRepo:         workoutRepo,
		exerciseRepo:        exerciseRepo,
	}
}

type CreateWorkoutExerciseRequest struct {
	WorkoutID       string  `json:"workout_id"`
	ExerciseID      string  `json:"exercise_id"`
	SetCount        int     `json:"set_count"`
	RepetitionCount int     `json:"repetition_count"`
	Weight          float64 `json:"weight"`
}

func (s *WorkoutExerciseService) List(ctx context.Context, claims *security.Claims) ([]model.WorkoutExercise, error) {
	if !policy.CanListWorkoutExercises(claims) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	entries, err := s.workoutExerciseRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout exercises: %w", err)
	}
	return entries, nil
}

func (s *WorkoutExerciseService) Get(ctx context.Context, claims *security.Claims, id string) (*model.WorkoutExercise, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	entry, err := s.workoutExerciseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("workout exercise does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find workout exercise: %w", err)
	}

	workout, err := s.parentWorkout(ctx, entry.WorkoutID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadWorkoutExercise(claims, workout.UserID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	return entry, nil
}

// Create validates the referenced workout before the referenced
// exercise, and checks ownership against the workout's user only: an
// admin cannot add entries to someone else's workout.
func (s *WorkoutExerciseService) Create(ctx context.Context, claims *security.Claims, req CreateWorkoutExerciseRequest) (*model.WorkoutExercise, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if req.WorkoutID == "" || !validUUID(req.WorkoutID) {
		return nil, fmt.Errorf("workout_id is invalid: %w", common.ErrBadRequest)
	}
	if req.ExerciseID == "" || !validUUID(req.ExerciseID) {
		return nil, fmt.Errorf("exercise_id is invalid: %w", common.ErrBadRequest)
	}
	if req.SetCount < 1 {
		return nil, fmt.Errorf("set_count is not positive: %w", common.ErrBadRequest)
	}
	if req.RepetitionCount < 1 {
		return nil, fmt.Errorf("repetition_count is not positive: %w", common.ErrBadRequest)
	}
	if req.Weight < 1 {
		return nil, fmt.Errorf("weight is not positive: %w", common.ErrBadRequest)
	}

	workout, err := s.parentWorkout(ctx, req.WorkoutID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateWorkoutExercise(claims, workout.UserID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	if _, err := s.exerciseRepo.FindByID(ctx, req.ExerciseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("exercise does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find exercise: %w", err)
	}

	entry := &model.WorkoutExercise{
		ID:              uuid.NewString(),
		WorkoutID:       req.WorkoutID,
		ExerciseID:      req.ExerciseID,
		SetCount:        req.SetCount,
		RepetitionCount: req.RepetitionCount,
		Weight:          req.Weight,
	}
	if err := s.workoutExerciseRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create workout exercise: %w", err)
	}
	return entry, nil
}

func (s *WorkoutExerciseService) Patch(ctx context.Context, claims *security.Claims, id string, updates PatchUpdates) (*model.WorkoutExercise, error) {
	entry, err := s.ownedEntry(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates were provided: %w", common.ErrBadRequest)
	}
	if err := rejectKeys(updates, "id", "workout_id", "exercise_id"); err != nil {
		return nil, err
	}

	if setCount, present, err := intField(updates, "set_count"); err != nil {
		return nil, err
	} else if present {
		if setCount < 1 {
			return nil, fmt.Errorf("set_count is not positive: %w", common.ErrBadRequest)
		}
		entry.SetCount = setCount
	}

	if repetitionCount, present, err := intField(updates, "repetition_count"); err != nil {
		return nil, err
	} else if present {
		if repetitionCount < 1 {
			return nil, fmt.Errorf("repetition_count is not positive: %w", common.ErrBadRequest)
		}
		entry.RepetitionCount = repetitionCount
	}

	if weight, present, err := floatField(updates, "weight"); err != nil {
		return nil, err
	} else if present {
		if weight < 1 {
			return nil, fmt.Errorf("weight is not positive: %w", common.ErrBadRequest)
		}
		entry.Weight = weight
	}

	if err := s.workoutExerciseRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update workout exercise: %w", err)
	}
	return entry, nil
}

func (s *WorkoutExerciseService) Delete(ctx context.Context, claims *security.Claims, id string) error {
	entry, err := s.ownedEntry(ctx, claims, id)
	if err != nil {
		return err
	}
	if err := s.workoutExerciseRepo.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete workout exercise: %w", err)
	}
	return nil
}

// ownedEntry runs the shared patch/delete pipeline: auth presence, id
// shape, entry existence, then ownership via the parent workout.
func (s *WorkoutExerciseService) ownedEntry(ctx context.Context, claims *security.Claims, id string) (*model.WorkoutExercise, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	entry, err := s.workoutExerciseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("workout exercise does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find workout exercise: %w", err)
	}

	workout, err := s.parentWorkout(ctx, entry.WorkoutID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateWorkoutExercise(claims, workout.UserID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	return entry, nil
}

func (s *WorkoutExerciseService) parentWorkout(ctx context.Context, workoutID string) (*model.Workout, error) {
	workout, err := s.workoutRepo.FindByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("workout does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find workout: %w", err)
	}
	return workout, nil
}
