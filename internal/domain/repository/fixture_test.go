package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"wlog/internal/domain/model"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// The repositories run against an in-memory SQLite database in tests;
// the SQL sticks to the portable subset ($N placeholders, no
// RETURNING) so the same queries work on both engines.
const testSchema = `
CREATE TABLE users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL,
	username      TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL,
	deleted_at    DATETIME
);

CREATE TABLE workouts (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	date       DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	deleted_at DATETIME
);

CREATE TABLE exercises (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	deleted_at  DATETIME
);

CREATE TABLE workout_exercises (
	id               TEXT PRIMARY KEY,
	workout_id       TEXT NOT NULL,
	exercise_id      TEXT NOT NULL,
	set_count        INTEGER NOT NULL,
	repetition_count INTEGER NOT NULL,
	weight           REAL NOT NULL,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// One connection only: each new connection to :memory: would get
	// its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo UserRepository, username, role string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         "Test " + username,
		Role:         role,
		Username:     username,
		PasswordHash: "hash",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return user
}

func seedWorkout(t *testing.T, repo WorkoutRepository, userID string) *model.Workout {
	t.Helper()
	workout := &model.Workout{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), workout); err != nil {
		t.Fatalf("seed workout: %v", err)
	}
	return workout
}

func seedExercise(t *testing.T, repo ExerciseRepository, name, slug string) *model.Exercise {
	t.Helper()
	exercise := &model.Exercise{
		ID:   uuid.NewString(),
		Name: name,
		Slug: slug,
	}
	if err := repo.Create(context.Background(), exercise); err != nil {
		t.Fatalf("seed exercise %q: %v", name, err)
	}
	return exercise
}
