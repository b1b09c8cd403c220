package model

import "time"

// WorkoutExercise records one exercise performed within one workout.
// Ownership is transitive through the parent workout's user.
type WorkoutExercise struct {
	ID              string    `json:"id"`
	WorkoutID       string    `json:"workout_id"`
	ExerciseID      string    `json:"exercise_id"`
	SetCount        int       `json:"set_count"`
	RepetitionCount int       `json:"repetition_count"`
	Weight          float64   `json:"weight"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}
