// Package policy holds the authorization rules for every resource as
// pure predicates. Each function takes the caller's decoded claims
// (nil for an anonymous request) plus whatever it needs to identify
// the target, and returns a plain allow/deny. Keeping the rules in one
// place stops each router from growing its own slightly different
// role checks.
package policy

import (
	"wlog/internal/common/security"
	"wlog/internal/domain/model"
)

func isAdmin(claims *security.Claims) bool {
	return claims != nil && claims.Role == model.RoleAdmin
}

// CanListUsers allows only admins to enumerate accounts.
func CanListUsers(claims *security.Claims) bool {
	return isAdmin(claims)
}

// CanAccessUser covers read, patch and delete of a single account:
// the account holder themselves, or an admin.
func CanAccessUser(claims *security.Claims, targetUserID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == targetUserID || isAdmin(claims)
}

// CanCreateUserWithRole: anyone may sign up as a regular user; only an
// admin may create another admin.
func CanCreateUserWithRole(claims *security.Claims, role string) bool {
	if role == model.RoleAdmin {
		return isAdmin(claims)
	}
	return true
}

// CanGrantRole gates role changes on patch: promoting to admin is
// reserved for admins, any other role change rides on CanAccessUser.
func CanGrantRole(claims *security.Claims, newRole string) bool {
	if newRole == model.RoleAdmin {
		return isAdmin(claims)
	}
	return true
}

// CanListWorkouts allows only admins to see every user's workouts.
func CanListWorkouts(claims *security.Claims) bool {
	return isAdmin(claims)
}

// CanAccessWorkout covers read, patch and delete of one workout: its
// owner or an admin.
func CanAccessWorkout(claims *security.Claims, ownerUserID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == ownerUserID || isAdmin(claims)
}

// CanCreateWorkout: a user may log workouts for themselves, an admin
// for anyone.
func CanCreateWorkout(claims *security.Claims, forUserID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == forUserID || isAdmin(claims)
}

// CanMutateExercises: the catalog is world-readable but only
// authenticated callers may change it, regardless of role.
func CanMutateExercises(claims *security.Claims) bool {
	return claims != nil
}

// CanListWorkoutExercises allows only admins to list every entry.
func CanListWorkoutExercises(claims *security.Claims) bool {
	return isAdmin(claims)
}

// CanReadWorkoutExercise: owner of the parent workout or an admin.
func CanReadWorkoutExercise(claims *security.Claims, workoutOwnerID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == workoutOwnerID || isAdmin(claims)
}

// CanMutateWorkoutExercise: only the user owning the parent workout.
// Deliberately NO admin override here, unlike the other resources.
func CanMutateWorkoutExercise(claims *security.Claims, workoutOwnerID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == workoutOwnerID
}
