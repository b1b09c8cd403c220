package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wlog/internal/app/policy"
	"wlog/internal/common"
	"wlog/internal/common/security"
	"wlog/internal/domain/model"
	"wlog/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

const exerciseCacheKey = "exercises:catalog"

// ExerciseService manages the shared exercise catalog. The public list
// is served through a best-effort redis cache when a client is
// configured; rdb may be nil.
type ExerciseService struct {
	exerciseRepo        repository.ExerciseRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
	rdb                 *redis.Client
	cacheTTL            time.Duration
}

func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *ExerciseService {
	return &ExerciseService{
		exerciseRepo:        exerciseRepo,
		workoutExerciseRepo: workoutExerciseRepo,
		rdb:                 rdb,
		cacheTTL:            cacheTTL,
	}
}

type CreateExerciseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *ExerciseService) List(ctx context.Context) ([]model.Exercise, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, exerciseCacheKey).Bytes(); err == nil {
			var exercises []model.Exercise
			if json.Unmarshal(cached, &exercises) == nil {
				return exercises, nil
			}
		}
	}

	exercises, err := s.exerciseRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(exercises); err == nil {
			// Cache errors are not worth failing the request over.
			s.rdb.Set(ctx, exerciseCacheKey, data, s.cacheTTL)
		}
	}
	return exercises, nil
}

func (s *ExerciseService) Get(ctx context.Context, id string) (*model.Exercise, error) {
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}
	exercise, err := s.exerciseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("exercise does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find exercise: %w", err)
	}
	return exercise, nil
}

func (s *ExerciseService) Create(ctx context.Context, claims *security.Claims, req CreateExerciseRequest) (*model.Exercise, error) {
	if !policy.CanMutateExercises(claims) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("empty name is not allowed: %w", common.ErrBadRequest)
	}

	// Duplicate detection keys on the slug so "Bench Press" and
	// "bench press" collide instead of coexisting.
	exerciseSlug := slug.Make(req.Name)
	if _, err := s.exerciseRepo.FindBySlug(ctx, exerciseSlug); err == nil {
		return nil, fmt.Errorf("duplicate exercises are not allowed: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check exercise name: %w", err)
	}

	exercise := &model.Exercise{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        exerciseSlug,
		Description: req.Description,
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	s.invalidateCache(ctx)
	return exercise, nil
}

func (s *ExerciseService) Patch(ctx context.Context, claims *security.Claims, id string, updates PatchUpdates) (*model.Exercise, error) {
	if !policy.CanMutateExercises(claims) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	exercise, err := s.exerciseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("exercise does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find exercise: %w", err)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates were provided: %w", common.ErrBadRequest)
	}
	if err := rejectKeys(updates, "id", "slug"); err != nil {
		return nil, err
	}

	if name, present, err := stringField(updates, "name"); err != nil {
		return nil, err
	} else if present {
		if name == "" {
			return nil, fmt.Errorf("empty name is not allowed: %w", common.ErrBadRequest)
		}
		newSlug := slug.Make(name)
		if newSlug != exercise.Slug {
			if _, err := s.exerciseRepo.FindBySlug(ctx, newSlug); err == nil {
				return nil, fmt.Errorf("duplicate exercises are not allowed: %w", common.ErrConflict)
			} else if !errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("failed to check exercise name: %w", err)
			}
		}
		exercise.Name = name
		exercise.Slug = newSlug
	}

	if description, present, err := stringField(updates, "description"); err != nil {
		return nil, err
	} else if present {
		exercise.Description = description
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	s.invalidateCache(ctx)
	return exercise, nil
}

// Delete refuses to remove an exercise still referenced by any workout
// entry.
func (s *ExerciseService) Delete(ctx context.Context, claims *security.Claims, id string) error {
	if !policy.CanMutateExercises(claims) {
		return fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	if _, err := s.exerciseRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("exercise does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to find exercise: %w", err)
	}

	inUse, err := s.workoutExerciseRepo.CountByExerciseID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check exercise references: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("exercise is used in a workout and cannot be deleted: %w", common.ErrBadRequest)
	}

	if err := s.exerciseRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ExerciseService) invalidateCache(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, exerciseCacheKey)
	}
}
