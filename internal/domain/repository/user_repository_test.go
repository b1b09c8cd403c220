package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"wlog/internal/common"
)

func TestUserRepo_CreateAndFind(t *testing.T) {
	repo := NewPgUserRepository(newTestDB(t))
	ctx := context.Background()

	created := seedUser(t, repo, "alice", "user")
	if created.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set on create")
	}

	byID, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Username != "alice" || byID.Role != "user" {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byName, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("FindByUsername returned wrong user: %q", byName.ID)
	}
}

func TestUserRepo_FindMissing(t *testing.T) {
	repo := NewPgUserRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, "00000000-0000-4000-8000-000000000000"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_Update(t *testing.T) {
	repo := NewPgUserRepository(newTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, "alice", "user")
	user.Name = "Alice Renamed"
	user.Role = "admin"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fetched, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if fetched.Name != "Alice Renamed" || fetched.Role != "admin" {
		t.Fatalf("update not persisted: %+v", fetched)
	}
}

func TestUserRepo_SoftDelete(t *testing.T) {
	repo := NewPgUserRepository(newTestDB(t))
	ctx := context.Background()

	alice := seedUser(t, repo, "alice", "user")
	seedUser(t, repo, "bob", "user")

	if err := repo.SoftDelete(ctx, alice.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// Deleted users disappear from every read path.
	if _, err := repo.FindByID(ctx, alice.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "alice"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 1 || all[0].Username != "bob" {
		t.Fatalf("expected only bob to remain, got %+v", all)
	}

	// The row itself survives for audit purposes.
	var count int
	if err := repoDB(repo).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("raw count: %v", err)
	}
	if count != 2 {
		t.Fatalf("soft delete must retain the row, got %d rows", count)
	}

	// The losing request of a delete race observes not-found.
	if err := repo.SoftDelete(ctx, alice.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, alice); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("update after delete: expected ErrNotFound, got %v", err)
	}
}

func repoDB(repo UserRepository) *sql.DB {
	return repo.(*pgUserRepository).db
}
