package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/blooddonors/internal/model"
	"github.com/erazemk/blooddonors/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account is pending approval by a super admin")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountInactive    = errors.New("account is no longer active")
	ErrSelfBlock          = errors.New("cannot block yourself")
	ErrSelfDemote         = errors.New("cannot remove your own super admin role")
	ErrSelfDelete         = errors.New("cannot delete yourself")
	ErrNotSuperAdmin      = errors.New("only a super admin can do this")
	ErrInvalidRole        = errors.New("invalid role")
)

// Accounts implements login, registration and admin management on top of
// the users and revoked_tokens tables.
type Accounts struct {
	DB     *sql.DB
	Secret string
	Now    func() time.Time
}

func (a *Accounts) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Login checks credentials and returns a signed token. Blocked accounts get
// ErrPendingApproval so the UI can explain why they cannot sign in yet.
func (a *Accounts) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := store.GetUserByEmail(ctx, a.DB, model.NormalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return "", nil, ErrPendingApproval
	}

	token, err := GenerateToken(a.Secret, user, a.now())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Register creates a blocked admin account that a super admin must approve.
func (a *Accounts) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if err := model.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := store.GetUserByEmail(ctx, a.DB, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := store.CreateUser(ctx, a.DB, email, hash, model.RoleAdmin, true)
	if err != nil {
		return nil, err
	}
	slog.Info("admin registered, pending approval", "email", email)
	return user, nil
}

// Authenticate validates a token, rejects revoked ones and re-checks that
// the account is still active.
func (a *Accounts) Authenticate(ctx context.Context, token string) (*Claims, *model.User, error) {
	claims, err := ValidateToken(a.Secret, token, a.now())
	if err != nil {
		return nil, nil, err
	}

	revoked, err := store.IsTokenRevoked(ctx, a.DB, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	user, err := store.GetUser(ctx, a.DB, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !user.Active() {
		return nil, nil, ErrAccountInactive
	}

	// Role changes take effect without a new login.
	claims.Role = user.Role
	return claims, user, nil
}

// Logout revokes the token until it would have expired anyway.
func (a *Accounts) Logout(ctx context.Context, claims *Claims) error {
	expires := a.now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return store.RevokeToken(ctx, a.DB, claims.ID, expires)
}

// ChangePassword replaces the user's password after checking the current one.
func (a *Accounts) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := store.GetUser(ctx, a.DB, userID)
	if err != nil {
		return err
	}
	if user == nil || !CheckPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if err := model.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return store.UpdateUserPassword(ctx, a.DB, userID, hash)
}

// UserUpdate changes an admin's role and/or blocked state. Nil fields are
// left alone.
type UserUpdate struct {
	Role    *string `json:"role"`
	Blocked *bool   `json:"is_blocked"`
}

// UpdateUser applies u to the target account on behalf of actor, a super
// admin. It returns the updated account, or nil when it does not exist.
func (a *Accounts) UpdateUser(ctx context.Context, actor *model.User, targetID int64, u UserUpdate) (*model.User, error) {
	if u.Role != nil && !model.ValidRole(*u.Role) {
		return nil, ErrInvalidRole
	}
	if actor.ID == targetID {
		if u.Blocked != nil && *u.Blocked {
			return nil, ErrSelfBlock
		}
		if u.Role != nil && *u.Role != model.RoleSuperAdmin && actor.Role == model.RoleSuperAdmin {
			return nil, ErrSelfDemote
		}
	}

	target, err := store.GetUser(ctx, a.DB, targetID)
	if err != nil || target == nil || target.DeletedAt != nil {
		return nil, err
	}

	if u.Role != nil && *u.Role != target.Role {
		if err := store.UpdateUserRole(ctx, a.DB, targetID, *u.Role); err != nil {
			return nil, err
		}
		slog.Info("admin role changed", "user", actor.Email, "target_user", target.Email, "role", *u.Role)
	}
	if u.Blocked != nil && *u.Blocked != target.Blocked {
		if err := store.SetUserBlocked(ctx, a.DB, targetID, *u.Blocked); err != nil {
			return nil, err
		}
		slog.Info("admin access changed", "user", actor.Email, "target_user", target.Email, "blocked", *u.Blocked)
	}
	return store.GetUser(ctx, a.DB, targetID)
}

// DeleteUser soft-deletes the target account. Its sessions stop working on
// the next request and its email can be registered again. It returns the
// deleted user, or nil,nil if there is no such active account.
func (a *Accounts) DeleteUser(ctx context.Context, actor *model.User, targetID int64) (*model.User, error) {
	if actor == nil || actor.Role != model.RoleSuperAdmin {
		return nil, ErrNotSuperAdmin
	}
	if actor.ID == targetID {
		return nil, ErrSelfDelete
	}

	target, err := store.GetUser(ctx, a.DB, targetID)
	if err != nil || target == nil || target.DeletedAt != nil {
		return nil, err
	}

	if err := store.DeleteUser(ctx, a.DB, targetID); err != nil {
		return nil, err
	}
	slog.Info("admin deleted", "user", actor.Email, "target_user", target.Email)
	return target, nil
}

// EnsureSuperAdmin creates the first super admin when no accounts exist.
// It returns the generated password, or "" if accounts already exist.
func (a *Accounts) EnsureSuperAdmin(ctx context.Context, email string) (string, error) {
	users, err := store.ListUsers(ctx, a.DB)
	if err != nil {
		return "", err
	}
	if len(users) > 0 {
		return "", nil
	}

	email = model.NormalizeEmail(email)
	if err := model.ValidateEmail(email); err != nil {
		return "", fmt.Errorf("initial admin: %w", err)
	}
	password, err := RandomPassword(12)
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := store.CreateUser(ctx, a.DB, email, hash, model.RoleSuperAdmin, false); err != nil {
		return "", err
	}
	return password, nil
}
