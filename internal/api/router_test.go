package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"wlog/internal/api"
	"wlog/internal/app/service"
	"wlog/internal/common/security"
	"wlog/internal/domain/model"
	"wlog/internal/domain/repository"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

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

const testPassword = "secret123"

var (
	testHashOnce sync.Once
	testHash     string
)

// bcrypt is deliberately slow; hash the shared test password once.
func sharedHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		var err error
		testHash, err = security.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
	})
	return testHash
}

type env struct {
	t      *testing.T
	router http.Handler

	users           repository.UserRepository
	workouts        repository.WorkoutRepository
	exercises       repository.ExerciseRepository
	workoutEntries  repository.WorkoutExerciseRepository
	admin           *model.User
	alice           *model.User
	bob             *model.User
	disabled        *model.User
	adminToken      string
	aliceToken      string
	bobToken        string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	security.InitJWT([]byte("router-test-secret"), time.Hour)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	e := &env{
		t:              t,
		users:          repository.NewPgUserRepository(db),
		workouts:       repository.NewPgWorkoutRepository(db),
		exercises:      repository.NewPgExerciseRepository(db),
		workoutEntries: repository.NewPgWorkoutExerciseRepository(db),
	}

	authService := service.NewAuthService(e.users)
	userService := service.NewUserService(e.users)
	exerciseService := service.NewExerciseService(e.exercises, e.workoutEntries, nil, 0)
	workoutService := service.NewWorkoutService(e.workouts, e.users)
	workoutExerciseService := service.NewWorkoutExerciseService(e.workoutEntries, e.workouts, e.exercises)
	e.router = api.NewRouter(authService, userService, exerciseService, workoutService, workoutExerciseService)

	e.admin = e.seedUser("admin", model.RoleAdmin)
	e.alice = e.seedUser("alice", model.RoleUser)
	e.bob = e.seedUser("bob", model.RoleUser)
	e.disabled = e.seedUser("carol", model.RoleDisabled)

	e.adminToken = e.token(e.admin)
	e.aliceToken = e.token(e.alice)
	e.bobToken = e.token(e.bob)
	return e
}

func (e *env) seedUser(username, role string) *model.User {
	e.t.Helper()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         "Test " + username,
		Role:         role,
		Username:     username,
		PasswordHash: sharedHash(e.t),
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		e.t.Fatalf("seed user %q: %v", username, err)
	}
	return user
}

func (e *env) token(user *model.User) string {
	e.t.Helper()
	token, err := security.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		e.t.Fatalf("token for %q: %v", user.Username, err)
	}
	return token
}

func (e *env) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rr.Code, want, rr.Body.String())
	}
}

// ---- login ----

func TestLogin(t *testing.T) {
	e := newEnv(t)

	t.Run("admin login returns admin claim set", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": testPassword})
		wantStatus(t, rr, http.StatusOK)

		var resp service.LoginResponse
		decodeBody(t, rr, &resp)
		if resp.Role != "admin" || resp.Username != "admin" || resp.Name == "" || resp.Token == "" {
			t.Fatalf("unexpected login response: %+v", resp)
		}

		// The token decodes to the stored user record.
		token, err := security.TokenAuth.Decode(resp.Token)
		if err != nil {
			t.Fatalf("decode token: %v", err)
		}
		raw, err := token.AsMap(context.Background())
		if err != nil {
			t.Fatalf("claims: %v", err)
		}
		claims, err := security.ClaimsFromMap(raw)
		if err != nil {
			t.Fatalf("claims from map: %v", err)
		}
		if claims.UserID != e.admin.ID || claims.Role != "admin" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "admin"})
		wantStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("unknown username", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "nobody", "password": testPassword})
		wantStatus(t, rr, http.StatusNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "alice", "password": "wrong"})
		wantStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("disabled account refused even with correct password", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "carol", "password": testPassword})
		wantStatus(t, rr, http.StatusUnauthorized)
	})
}

// ---- users ----

func TestUserRoutes(t *testing.T) {
	e := newEnv(t)

	t.Run("list requires admin", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodGet, "/api/users", "", nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodGet, "/api/users", e.aliceToken, nil), http.StatusUnauthorized)

		rr := e.do(http.MethodGet, "/api/users", e.adminToken, nil)
		wantStatus(t, rr, http.StatusOK)

		var users []model.User
		decodeBody(t, rr, &users)
		if len(users) != 4 {
			t.Fatalf("expected 4 users, got %d", len(users))
		}
		if strings.Contains(rr.Body.String(), "password") {
			t.Fatalf("password material leaked: %s", rr.Body.String())
		}
	})

	t.Run("get self or admin only", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodGet, "/api/users/"+e.alice.ID, e.aliceToken, nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodGet, "/api/users/"+e.alice.ID, e.adminToken, nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodGet, "/api/users/"+e.alice.ID, e.bobToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodGet, "/api/users/"+e.alice.ID, "", nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodGet, "/api/users/not-a-uuid", e.aliceToken, nil), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodGet, "/api/users/"+uuid.NewString(), e.adminToken, nil), http.StatusNotFound)
	})

	t.Run("signup", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/users", "", map[string]string{
			"name": "Dave", "role": "user", "username": "dave", "password": "davepw",
		})
		wantStatus(t, rr, http.StatusCreated)

		var created model.User
		decodeBody(t, rr, &created)
		if created.ID == "" || created.Username != "dave" {
			t.Fatalf("unexpected user: %+v", created)
		}

		// Duplicate username conflicts.
		rr = e.do(http.MethodPost, "/api/users", "", map[string]string{
			"name": "Dave Again", "role": "user", "username": "dave", "password": "davepw",
		})
		wantStatus(t, rr, http.StatusConflict)
	})

	t.Run("admin creation gated", func(t *testing.T) {
		body := map[string]string{"name": "Eve", "role": "admin", "username": "eve", "password": "evepw"}
		wantStatus(t, e.do(http.MethodPost, "/api/users", "", body), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPost, "/api/users", e.aliceToken, body), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPost, "/api/users", e.adminToken, body), http.StatusCreated)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/users", "", map[string]string{
			"name": "Mallory", "role": "superuser", "username": "mallory", "password": "pw",
		})
		wantStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("patch immutable fields rejected", func(t *testing.T) {
		for _, body := range []map[string]interface{}{
			{"id": uuid.NewString()},
			{"passwordHash": "sneaky"},
		} {
			rr := e.do(http.MethodPatch, "/api/users/"+e.alice.ID, e.aliceToken, body)
			wantStatus(t, rr, http.StatusBadRequest)
		}
		// Record unchanged.
		fetched, err := e.users.FindByID(context.Background(), e.alice.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if fetched.Name != e.alice.Name {
			t.Fatalf("record changed by rejected patch: %+v", fetched)
		}
	})

	t.Run("self promotion to admin rejected", func(t *testing.T) {
		rr := e.do(http.MethodPatch, "/api/users/"+e.alice.ID, e.aliceToken, map[string]string{"role": "admin"})
		wantStatus(t, rr, http.StatusUnauthorized)

		rr = e.do(http.MethodPatch, "/api/users/"+e.alice.ID, e.adminToken, map[string]string{"role": "admin"})
		wantStatus(t, rr, http.StatusOK)

		// Restore for later subtests.
		rr = e.do(http.MethodPatch, "/api/users/"+e.alice.ID, e.adminToken, map[string]string{"role": "user"})
		wantStatus(t, rr, http.StatusOK)
	})

	t.Run("patched password works at next login", func(t *testing.T) {
		rr := e.do(http.MethodPatch, "/api/users/"+e.bob.ID, e.bobToken, map[string]string{"password": "newpw"})
		wantStatus(t, rr, http.StatusOK)

		wantStatus(t, e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "bob", "password": testPassword}), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPost, "/api/login", "", map[string]string{"username": "bob", "password": "newpw"}), http.StatusOK)
	})

	t.Run("delete then lookup", func(t *testing.T) {
		victim := e.seedUser("victim", model.RoleUser)
		wantStatus(t, e.do(http.MethodDelete, "/api/users/"+victim.ID, e.bobToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodDelete, "/api/users/"+victim.ID, e.adminToken, nil), http.StatusNoContent)
		wantStatus(t, e.do(http.MethodGet, "/api/users/"+victim.ID, e.adminToken, nil), http.StatusNotFound)
		wantStatus(t, e.do(http.MethodDelete, "/api/users/"+victim.ID, e.adminToken, nil), http.StatusNotFound)
	})
}

// ---- exercises ----

func TestExerciseRoutes(t *testing.T) {
	e := newEnv(t)

	t.Run("reads are public, mutations are not", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodGet, "/api/exercises", "", nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodPost, "/api/exercises", "", map[string]string{"name": "squat"}), http.StatusUnauthorized)
	})

	t.Run("create and round-trip", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/exercises", e.aliceToken, map[string]string{"name": "row", "description": "back"})
		wantStatus(t, rr, http.StatusCreated)

		var created model.Exercise
		decodeBody(t, rr, &created)
		if created.Name != "row" || created.Description != "back" || created.ID == "" {
			t.Fatalf("unexpected exercise: %+v", created)
		}

		rr = e.do(http.MethodGet, "/api/exercises/"+created.ID, "", nil)
		wantStatus(t, rr, http.StatusOK)
		var fetched model.Exercise
		decodeBody(t, rr, &fetched)
		if fetched.ID != created.ID || fetched.Name != "row" || fetched.Description != "back" {
			t.Fatalf("round-trip mismatch: %+v", fetched)
		}
	})

	t.Run("duplicate names conflict case-insensitively", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodPost, "/api/exercises", e.aliceToken, map[string]string{"name": "Bench Press"}), http.StatusCreated)
		wantStatus(t, e.do(http.MethodPost, "/api/exercises", e.bobToken, map[string]string{"name": "bench press"}), http.StatusConflict)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodPost, "/api/exercises", e.aliceToken, map[string]string{"description": "no name"}), http.StatusBadRequest)
	})

	t.Run("delete blocked while referenced", func(t *testing.T) {
		var squat model.Exercise
		rr := e.do(http.MethodPost, "/api/exercises", e.aliceToken, map[string]string{"name": "squat"})
		wantStatus(t, rr, http.StatusCreated)
		decodeBody(t, rr, &squat)

		var workout model.Workout
		rr = e.do(http.MethodPost, "/api/workouts", e.aliceToken, map[string]string{"user_id": e.alice.ID})
		wantStatus(t, rr, http.StatusCreated)
		decodeBody(t, rr, &workout)

		rr = e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, map[string]interface{}{
			"workout_id": workout.ID, "exercise_id": squat.ID, "set_count": 3, "repetition_count": 5, "weight": 100,
		})
		wantStatus(t, rr, http.StatusCreated)
		var entry model.WorkoutExercise
		decodeBody(t, rr, &entry)

		wantStatus(t, e.do(http.MethodDelete, "/api/exercises/"+squat.ID, e.aliceToken, nil), http.StatusBadRequest)

		// Releasing the reference unblocks the delete.
		wantStatus(t, e.do(http.MethodDelete, "/api/workoutsexercises/"+entry.ID, e.aliceToken, nil), http.StatusNoContent)
		wantStatus(t, e.do(http.MethodDelete, "/api/exercises/"+squat.ID, e.aliceToken, nil), http.StatusNoContent)
		wantStatus(t, e.do(http.MethodGet, "/api/exercises/"+squat.ID, "", nil), http.StatusNotFound)
	})

	t.Run("patch", func(t *testing.T) {
		var curl model.Exercise
		rr := e.do(http.MethodPost, "/api/exercises", e.aliceToken, map[string]string{"name": "curl"})
		wantStatus(t, rr, http.StatusCreated)
		decodeBody(t, rr, &curl)

		wantStatus(t, e.do(http.MethodPatch, "/api/exercises/"+curl.ID, "", map[string]string{"description": "arms"}), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPatch, "/api/exercises/"+curl.ID, e.aliceToken, map[string]string{"id": uuid.NewString()}), http.StatusBadRequest)

		rr = e.do(http.MethodPatch, "/api/exercises/"+curl.ID, e.aliceToken, map[string]string{"description": "arms"})
		wantStatus(t, rr, http.StatusOK)
		var patched model.Exercise
		decodeBody(t, rr, &patched)
		if patched.Description != "arms" || patched.Name != "curl" {
			t.Fatalf("unexpected patch result: %+v", patched)
		}
	})
}

// ---- workouts ----

func TestWorkoutRoutes(t *testing.T) {
	e := newEnv(t)

	t.Run("create for self", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/workouts", e.aliceToken, map[string]string{"user_id": e.alice.ID})
		wantStatus(t, rr, http.StatusCreated)

		var workout model.Workout
		decodeBody(t, rr, &workout)
		if workout.UserID != e.alice.ID || workout.Date.IsZero() {
			t.Fatalf("unexpected workout: %+v", workout)
		}
	})

	t.Run("create for another user", func(t *testing.T) {
		body := map[string]string{"user_id": e.alice.ID}
		wantStatus(t, e.do(http.MethodPost, "/api/workouts", e.bobToken, body), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPost, "/api/workouts", e.adminToken, body), http.StatusCreated)
		wantStatus(t, e.do(http.MethodPost, "/api/workouts", "", body), http.StatusUnauthorized)
	})

	t.Run("create referencing missing user", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodPost, "/api/workouts", e.adminToken, map[string]string{"user_id": uuid.NewString()}), http.StatusNotFound)
		wantStatus(t, e.do(http.MethodPost, "/api/workouts", e.adminToken, map[string]string{"user_id": "nope"}), http.StatusBadRequest)
	})

	t.Run("ownership on reads", func(t *testing.T) {
		var workout model.Workout
		rr := e.do(http.MethodPost, "/api/workouts", e.aliceToken, map[string]string{"user_id": e.alice.ID})
		wantStatus(t, rr, http.StatusCreated)
		decodeBody(t, rr, &workout)

		wantStatus(t, e.do(http.MethodGet, "/api/workouts/"+workout.ID, e.aliceToken, nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodGet, "/api/workouts/"+workout.ID, e.adminToken, nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodGet, "/api/workouts/"+workout.ID, e.bobToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodGet, "/api/workouts/"+workout.ID, "", nil), http.StatusUnauthorized)
	})

	t.Run("list requires admin", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodGet, "/api/workouts", e.aliceToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodGet, "/api/workouts", e.adminToken, nil), http.StatusOK)
	})

	t.Run("patch date only", func(t *testing.T) {
		var workout model.Workout
		rr := e.do(http.MethodPost, "/api/workouts", e.aliceToken, map[string]string{"user_id": e.alice.ID})
		wantStatus(t, rr, http.StatusCreated)
		decodeBody(t, rr, &workout)

		wantStatus(t, e.do(http.MethodPatch, "/api/workouts/"+workout.ID, e.aliceToken, map[string]string{"user_id": e.bob.ID}), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPatch, "/api/workouts/"+workout.ID, e.aliceToken, map[string]string{"id": uuid.NewString()}), http.StatusBadRequest)

		newDate := time.Date(2020, 5, 4, 10, 0, 0, 0, time.UTC)
		rr = e.do(http.MethodPatch, "/api/workouts/"+workout.ID, e.aliceToken, map[string]string{"date": newDate.Format(time.RFC3339)})
		wantStatus(t, rr, http.StatusOK)

		var patched model.Workout
		decodeBody(t, rr, &patched)
		if !patched.Date.Equal(newDate) {
			t.Fatalf("date = %v, want %v", patched.Date, newDate)
		}

		// A null date must not zero the stored value.
		wantStatus(t, e.do(http.MethodPatch, "/api/workouts/"+workout.ID, e.aliceToken, map[string]interface{}{"date": nil}), http.StatusBadRequest)
		rr = e.do(http.MethodGet, "/api/workouts/"+workout.ID, e.aliceToken, nil)
		wantStatus(t, rr, http.StatusOK)
		var after model.Workout
		decodeBody(t, rr, &after)
		if !after.Date.Equal(newDate) {
			t.Fatalf("date changed by rejected patch: %v", after.Date)
		}
	})

	t.Run("delete", func(t *testing.T) {
		var workout model.Workout
		rr := e.do(http.MethodPost, "/api/workouts", e.aliceToken, map[string]string{"user_id": e.alice.ID})
		wantStatus(t, rr, http.StatusCreated)
		decodeBody(t, rr, &workout)

		wantStatus(t, e.do(http.MethodDelete, "/api/workouts/"+workout.ID, e.bobToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodDelete, "/api/workouts/"+workout.ID, e.aliceToken, nil), http.StatusNoContent)
		wantStatus(t, e.do(http.MethodGet, "/api/workouts/"+workout.ID, e.aliceToken, nil), http.StatusNotFound)
		wantStatus(t, e.do(http.MethodDelete, "/api/workouts/"+workout.ID, e.aliceToken, nil), http.StatusNotFound)
	})
}

// ---- workout exercises ----

func TestWorkoutExerciseRoutes(t *testing.T) {
	e := newEnv(t)

	// Fixtures shared by the subtests: alice's workout and a catalog
	// exercise.
	var workout model.Workout
	rr := e.do(http.MethodPost, "/api/workouts", e.aliceToken, map[string]string{"user_id": e.alice.ID})
	wantStatus(t, rr, http.StatusCreated)
	decodeBody(t, rr, &workout)

	var squat model.Exercise
	rr = e.do(http.MethodPost, "/api/exercises", e.aliceToken, map[string]string{"name": "squat"})
	wantStatus(t, rr, http.StatusCreated)
	decodeBody(t, rr, &squat)

	entryBody := func(overrides map[string]interface{}) map[string]interface{} {
		body := map[string]interface{}{
			"workout_id": workout.ID, "exercise_id": squat.ID,
			"set_count": 3, "repetition_count": 5, "weight": 100,
		}
		for k, v := range overrides {
			body[k] = v
		}
		return body
	}

	t.Run("create validation", func(t *testing.T) {
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", "", entryBody(nil)), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(map[string]interface{}{"set_count": 0})), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(map[string]interface{}{"repetition_count": 0})), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(map[string]interface{}{"weight": 0})), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(map[string]interface{}{"workout_id": "nope"})), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(map[string]interface{}{"workout_id": uuid.NewString()})), http.StatusNotFound)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(map[string]interface{}{"exercise_id": uuid.NewString()})), http.StatusNotFound)
	})

	t.Run("no admin override on create", func(t *testing.T) {
		// Admin adding an entry to alice's workout is refused; that is
		// the documented asymmetry, not a bug.
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.adminToken, entryBody(nil)), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodPost, "/api/workoutsexercises", e.bobToken, entryBody(nil)), http.StatusUnauthorized)
	})

	t.Run("owner lifecycle", func(t *testing.T) {
		rr := e.do(http.MethodPost, "/api/workoutsexercises", e.aliceToken, entryBody(nil))
		wantStatus(t, rr, http.StatusCreated)

		var entry model.WorkoutExercise
		decodeBody(t, rr, &entry)
		if entry.SetCount != 3 || entry.RepetitionCount != 5 || entry.Weight != 100 {
			t.Fatalf("unexpected entry: %+v", entry)
		}

		// Reads: owner and admin, not others.
		wantStatus(t, e.do(http.MethodGet, "/api/workoutsexercises/"+entry.ID, e.aliceToken, nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodGet, "/api/workoutsexercises/"+entry.ID, e.adminToken, nil), http.StatusOK)
		wantStatus(t, e.do(http.MethodGet, "/api/workoutsexercises/"+entry.ID, e.bobToken, nil), http.StatusUnauthorized)

		// List: admin only.
		wantStatus(t, e.do(http.MethodGet, "/api/workoutsexercises", e.aliceToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodGet, "/api/workoutsexercises", e.adminToken, nil), http.StatusOK)

		// Patch: immutable fields and non-positive values rejected.
		wantStatus(t, e.do(http.MethodPatch, "/api/workoutsexercises/"+entry.ID, e.aliceToken, map[string]interface{}{"workout_id": uuid.NewString()}), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPatch, "/api/workoutsexercises/"+entry.ID, e.aliceToken, map[string]interface{}{"exercise_id": uuid.NewString()}), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPatch, "/api/workoutsexercises/"+entry.ID, e.aliceToken, map[string]interface{}{"set_count": 0}), http.StatusBadRequest)
		wantStatus(t, e.do(http.MethodPatch, "/api/workoutsexercises/"+entry.ID, e.adminToken, map[string]interface{}{"set_count": 4}), http.StatusUnauthorized)

		rr = e.do(http.MethodPatch, "/api/workoutsexercises/"+entry.ID, e.aliceToken, map[string]interface{}{"set_count": 4, "weight": 110.5})
		wantStatus(t, rr, http.StatusOK)
		var patched model.WorkoutExercise
		decodeBody(t, rr, &patched)
		if patched.SetCount != 4 || patched.Weight != 110.5 || patched.RepetitionCount != 5 {
			t.Fatalf("unexpected patch result: %+v", patched)
		}

		// Delete: owner only, 404 afterwards.
		wantStatus(t, e.do(http.MethodDelete, "/api/workoutsexercises/"+entry.ID, e.adminToken, nil), http.StatusUnauthorized)
		wantStatus(t, e.do(http.MethodDelete, "/api/workoutsexercises/"+entry.ID, e.aliceToken, nil), http.StatusNoContent)
		wantStatus(t, e.do(http.MethodGet, "/api/workoutsexercises/"+entry.ID, e.aliceToken, nil), http.StatusNotFound)
	})
}

// ---- token handling ----

func TestBearerPrefixCaseInsensitive(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", fmt.Sprintf("bearer %s", e.adminToken))
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	wantStatus(t, rr, http.StatusOK)
}

func TestGarbageTokenRejected(t *testing.T) {
	e := newEnv(t)

	// A present-but-invalid token fails the request even on a route
	// that would accept anonymous callers.
	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	wantStatus(t, rr, http.StatusUnauthorized)
}
