// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/dberr"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/platform/validate"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs and verifies session tokens. [*sec.TokenService] implements it.
type TokenIssuer interface {
	Issue(userID, role string, timeToLive time.Duration) (string, *sec.SessionClaims, error)
	Verify(token string) (*sec.SessionClaims, error)
}

// Options tunes session issuance.
type Options struct {
	SessionTTL       time.Duration
	AllowAdminSignup bool
}

// Service implements the credential store and session issuer.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed with the same care as the sec package.
type Service struct {
	userRepository  UserRepository
	revocationStore RevocationStore
	tokenIssuer     TokenIssuer
	options         Options
	logger          *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	revocations RevocationStore,
	tokens TokenIssuer,
	options Options,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:  userRepo,
		revocationStore: revocations,
		tokenIssuer:     tokens,
		options:         options,
		logger:          logger,
	}
}

// Session is a freshly issued session token with its owner.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// timingHash is compared against when the email is unknown so that both
// failure paths spend one bcrypt comparison.
var timingHash = sync.OnceValue(func() string {
	hash, _ := sec.HashPassword("innkeep-unknown-account")
	return hash
})

// # Registration Flow

// RegisterInput holds the data required to create a staff account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     sec.UserRole
}

/*
CreateUser validates, hashes, and persists a brand new account without
issuing a session. It backs both self-registration and the admin CLI.

Returns:
  - *User: Created entity
  - err: ValidationError, Conflict (email taken) or storage errors
*/
func (service *Service) CreateUser(context context.Context, input RegisterInput) (*User, error) {
	input.Email = normalizeEmail(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	if input.Role == "" {
		input.Role = sec.RoleManager
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxNameLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldFullName, input.FullName, MaxNameLength).
		OneOf(FieldRole, string(input.Role), sec.RoleAdmin.String(), sec.RoleManager.String())

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Checked up-front for a friendly error; the unique index settles races.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Role:         input.Role,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)

	return user, nil
}

/*
Register creates an account and signs the new user in.

Self-registration as admin is refused when admin signup is disabled.

Returns:
  - *Session: Token bound to the new user
  - err: Forbidden, ValidationError, Conflict or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	if input.Role == sec.RoleAdmin && !service.options.AllowAdminSignup {
		return nil, apperr.Forbidden("Admin accounts cannot be self-registered")
	}

	user, err := service.CreateUser(context, input)
	if err != nil {
		return nil, err
	}

	return service.issue(user)
}

// # Authentication Flow

/*
Authenticate verifies an email/password pair and issues a session.

Unknown email and wrong password fail identically with InvalidCredentials.
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*Session, error) {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if !dberr.IsNotFound(err) {
			return nil, err
		}
		sec.CheckPasswordHash(password, timingHash())
		return nil, apperr.InvalidCredentials()
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	service.logger.Info("user_authenticated", slog.String("user_id", user.ID))

	return service.issue(user)
}

// issue signs a session token for user.
func (service *Service) issue(user *User) (*Session, error) {
	token, claims, err := service.tokenIssuer.Issue(user.ID, user.Role.String(), service.options.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// # Session Management

/*
ResolveSession returns the user a session token belongs to.

Any failure (bad signature, expiry, revocation, revocation lookup error,
deleted user) yields nil. The role comes from storage, not from the token.
*/
func (service *Service) ResolveSession(context context.Context, token string) *User {
	if token == "" {
		return nil
	}

	claims, err := service.tokenIssuer.Verify(token)
	if err != nil {
		return nil
	}

	revoked, err := service.revocationStore.IsRevoked(context, claims.ID)
	if err != nil {
		service.logger.Warn("auth_revocation_lookup_failed", slog.Any("error", err))
		return nil
	}
	if revoked {
		return nil
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if !dberr.IsNotFound(err) {
			service.logger.Warn("auth_session_user_lookup_failed", slog.Any("error", err))
		}
		return nil
	}

	return user
}

// ResolvePrincipal adapts [Service.ResolveSession] for the session middleware.
func (service *Service) ResolvePrincipal(context context.Context, token string) *access.Principal {
	return service.ResolveSession(context, token).Principal()
}

/*
EndSession revokes token for the rest of its lifetime.

Logout never fails: an invalid token has nothing to revoke and a revocation
storage error is only logged.
*/
func (service *Service) EndSession(context context.Context, token string) {
	claims, err := service.tokenIssuer.Verify(token)
	if err != nil {
		return
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := service.revocationStore.Revoke(context, claims.ID, remaining); err != nil {
		service.logger.Error("auth_session_revoke_failed",
			slog.String("user_id", claims.UserID),
			slog.Any("error", err),
		)
		return
	}

	service.logger.Info("user_logged_out", slog.String("user_id", claims.UserID))
}

// CurrentUser returns the account behind principal.
func (service *Service) CurrentUser(context context.Context, principal *access.Principal) (*User, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}
	return service.userRepository.FindByID(context, principal.ID)
}

// # Password Recovery

/*
ResetPassword replaces the password of the account with the given email.

Used by the admin CLI; there is no self-service flow.
*/
func (service *Service) ResetPassword(context context.Context, email, newPassword string) error {
	validator := &validate.Validator{}
	validator.MinLen(FieldPassword, newPassword, MinPasswordLength)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return err
	}

	service.logger.Warn("user_password_reset", slog.String("user_id", user.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
