package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wlog/internal/common"
	"wlog/internal/common/security"
	"wlog/internal/domain/model"
	"wlog/internal/domain/repository"
	"wlog/internal/platform/config"

	"github.com/google/uuid"
)

// Seed creates the admin/user/disabled accounts configured through the
// environment. Accounts with missing credentials are skipped, as are
// usernames that already exist.
func Seed(ctx context.Context, userRepo repository.UserRepository, cfg *config.Config) error {
	accounts := []struct {
		account config.SeedAccount
		role    string
	}{
		{cfg.SeedAdmin, model.RoleAdmin},
		{cfg.SeedUser, model.RoleUser},
		{cfg.SeedDisabled, model.RoleDisabled},
	}

	for _, entry := range accounts {
		if err := seedAccount(ctx, userRepo, entry.account, entry.role); err != nil {
			return err
		}
	}
	return nil
}

func seedAccount(ctx context.Context, userRepo repository.UserRepository, account config.SeedAccount, role string) error {
	if account.Username == "" || account.Password == "" {
		return nil
	}

	_, err := userRepo.FindByUsername(ctx, account.Username)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("seed: lookup %q: %w", account.Username, err)
	}

	passwordHash, err := security.HashPassword(account.Password)
	if err != nil {
		return fmt.Errorf("seed: hash password for %q: %w", account.Username, err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         account.Name,
		Role:         role,
		Username:     account.Username,
		PasswordHash: passwordHash,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("seed: create %q: %w", account.Username, err)
	}
	log.Printf("Seeded %s account %q", role, account.Username)
	return nil
}
