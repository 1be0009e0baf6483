// Package identity maps authenticated principals onto newspaper profiles
// and tracks the process-wide current user.
package identity

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"kidpress/api/internal/rbac"
	"kidpress/api/internal/store"
)

// Principal is the raw identity handed over by an authentication provider:
// a stable unique id plus whatever profile fields the provider exposes.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// ProfileStore is the slice of the data layer the resolver needs.
type ProfileStore interface {
	GetUser(ctx context.Context, uid string) (store.UserProfile, error)
	CreateUser(ctx context.Context, user store.UserProfile) error
}

// Resolver turns principals into profiles. It owns role assignment: the
// persisted role is authoritative except for the configured admin email,
// which is forced to admin at resolve time. The backing record is not
// rewritten by the override, so a misconfigured store cannot lock the
// admin out.
type Resolver struct {
	store      ProfileStore
	adminEmail string
}

func NewResolver(profileStore ProfileStore, adminEmail string) *Resolver {
	return &Resolver{store: profileStore, adminEmail: adminEmail}
}

// Resolve returns the profile for a principal, creating a reader profile on
// first login. A nil principal resolves to nil (signed out).
//
// Profile-store failures are logged and degraded to role=reader rather than
// returned: a successful authentication is never blocked by a secondary
// profile lookup. The admin override applies even on that degraded path.
func (r *Resolver) Resolve(ctx context.Context, principal *Principal) *store.UserProfile {
	if principal == nil {
		return nil
	}

	role := string(rbac.RoleReader)
	displayName := principal.DisplayName
	if displayName == "" {
		displayName = "Friend"
	}
	photoURL := principal.PhotoURL
	if photoURL == "" {
		photoURL = FallbackAvatarURL(displayName)
	}

	existing, err := r.store.GetUser(ctx, principal.UID)
	switch {
	case err == nil:
		role = string(rbac.Normalize(existing.Role))
		if existing.DisplayName != "" {
			displayName = existing.DisplayName
		}
		if existing.PhotoURL != "" {
			photoURL = existing.PhotoURL
		}
	case isNotFound(err):
		created := store.UserProfile{
			UID:         principal.UID,
			Email:       principal.Email,
			DisplayName: displayName,
			PhotoURL:    photoURL,
			Role:        role,
			CreatedAt:   time.Now(),
		}
		if createErr := r.store.CreateUser(ctx, created); createErr != nil {
			log.Printf("identity: create profile for %s: %v", principal.UID, createErr)
		}
	default:
		log.Printf("identity: load profile for %s: %v", principal.UID, err)
	}

	if r.adminEmail != "" && principal.Email == r.adminEmail {
		role = string(rbac.RoleAdmin)
	}

	return &store.UserProfile{
		UID:         principal.UID,
		Email:       principal.Email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Role:        role,
	}
}

// AdminEmail exposes the configured admin address for policy checks.
func (r *Resolver) AdminEmail() string {
	return r.adminEmail
}

// FallbackAvatarURL builds the generated-avatar URL used when a principal
// has no photo.
func FallbackAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
