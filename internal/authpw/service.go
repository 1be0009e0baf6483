// Package authpw provides email/password sign-up and sign-in.
package authpw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kidpress/api/internal/identity"
	"kidpress/api/internal/rbac"
	"kidpress/api/internal/store"
	"kidpress/api/internal/util"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMissingFields      = errors.New("email, password, and display name are required")
)

// UserStore defines the storage interface for password auth.
type UserStore interface {
	GetCredentialByEmail(ctx context.Context, email string) (store.Credential, error)
	CreateCredential(ctx context.Context, cred store.Credential) error
	CreateUser(ctx context.Context, user store.UserProfile) error
}

// Service handles email/password accounts. Accounts are usable immediately;
// there is no verification step.
type Service struct {
	store UserStore
}

func NewService(userStore UserStore) *Service {
	return &Service{store: userStore}
}

// SignUp creates the credential and the reader profile in one step, so the
// profile exists before the first resolve runs.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*identity.Principal, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" || displayName == "" {
		return nil, ErrMissingFields
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	if _, err := s.store.GetCredentialByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing credential: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	uid := util.NewID("usr")
	photoURL := identity.FallbackAvatarURL(displayName)

	if err := s.store.CreateCredential(ctx, store.Credential{
		UID:          uid,
		Email:        email,
		PasswordHash: string(hash),
	}); err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	if err := s.store.CreateUser(ctx, store.UserProfile{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Role:        string(rbac.RoleReader),
		CreatedAt:   time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return &identity.Principal{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	}, nil
}

// SignIn checks the password against the stored hash. The same error covers
// unknown emails and wrong passwords.
func (s *Service) SignIn(ctx context.Context, email, password string) (*identity.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	cred, err := s.store.GetCredentialByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &identity.Principal{UID: cred.UID, Email: cred.Email}, nil
}
