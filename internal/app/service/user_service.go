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

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *UserService) List(ctx context.Context, claims *security.Claims) ([]model.User, error) {
	if !policy.CanListUsers(claims) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, claims *security.Claims, id string) (*model.User, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanAccessUser(claims, user.ID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	return user, nil
}

// Create handles signup. Anonymous callers may create regular users;
// creating an admin account takes an admin token.
func (s *UserService) Create(ctx context.Context, claims *security.Claims, req CreateUserRequest) (*model.User, error) {
	if req.Name == "" || req.Username == "" {
		return nil, fmt.Errorf("empty name and/or username is not allowed: %w", common.ErrBadRequest)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("empty password is not allowed: %w", common.ErrBadRequest)
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		return nil, fmt.Errorf("only roles 'admin' and 'user' are allowed: %w", common.ErrBadRequest)
	}

	if !policy.CanCreateUserWithRole(claims, req.Role) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username is already taken: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Role:         req.Role,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Patch(ctx context.Context, claims *security.Claims, id string, updates PatchUpdates) (*model.User, error) {
	if claims == nil {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return nil, fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanAccessUser(claims, user.ID) {
		return nil, fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates were provided: %w", common.ErrBadRequest)
	}
	if err := rejectKeys(updates, "id", "passwordHash", "password_hash"); err != nil {
		return nil, err
	}

	if name, present, err := stringField(updates, "name"); err != nil {
		return nil, err
	} else if present {
		if name == "" {
			return nil, fmt.Errorf("empty name is not allowed: %w", common.ErrBadRequest)
		}
		user.Name = name
	}

	if role, present, err := stringField(updates, "role"); err != nil {
		return nil, err
	} else if present {
		if !model.ValidRole(role) {
			return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrBadRequest)
		}
		if !policy.CanGrantRole(claims, role) {
			return nil, fmt.Errorf("only admin can promote new admins: %w", common.ErrUnauthorized)
		}
		user.Role = role
	}

	if username, present, err := stringField(updates, "username"); err != nil {
		return nil, err
	} else if present && username != user.Username {
		if username == "" {
			return nil, fmt.Errorf("empty username is not allowed: %w", common.ErrBadRequest)
		}
		if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
			return nil, fmt.Errorf("username is already taken: %w", common.ErrConflict)
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		user.Username = username
	}

	// A plaintext password in a patch goes through the same hashing
	// step as at signup; the hash itself is never patchable.
	if password, present, err := stringField(updates, "password"); err != nil {
		return nil, err
	} else if present {
		if password == "" {
			return nil, fmt.Errorf("empty password is not allowed: %w", common.ErrBadRequest)
		}
		passwordHash, err := security.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, claims *security.Claims, id string) error {
	if claims == nil {
		return fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}
	if !validUUID(id) {
		return fmt.Errorf("id is not valid: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanAccessUser(claims, user.ID) {
		return fmt.Errorf("insufficient privileges: %w", common.ErrUnauthorized)
	}

	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
