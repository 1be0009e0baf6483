package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"kidpress/api/internal/store"
)

const adminEmail = "chief@kidpress.local"

type fakeProfileStore struct {
	users     map[string]store.UserProfile
	getErr    error
	createErr error
	created   []store.UserProfile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{users: map[string]store.UserProfile{}}
}

func (f *fakeProfileStore) GetUser(_ context.Context, uid string) (store.UserProfile, error) {
	if f.getErr != nil {
		return store.UserProfile{}, f.getErr
	}
	user, ok := f.users[uid]
	if !ok {
		return store.UserProfile{}, fmt.Errorf("get user: %w", store.ErrNotFound)
	}
	return user, nil
}

func (f *fakeProfileStore) CreateUser(_ context.Context, user store.UserProfile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.users[user.UID] = user
	f.created = append(f.created, user)
	return nil
}

func TestResolveNilPrincipal(t *testing.T) {
	resolver := NewResolver(newFakeProfileStore(), adminEmail)
	if got := resolver.Resolve(context.Background(), nil); got != nil {
		t.Fatalf("Resolve(nil) = %+v, want nil", got)
	}
}

func TestResolveFirstLoginCreatesReader(t *testing.T) {
	profiles := newFakeProfileStore()
	resolver := NewResolver(profiles, adminEmail)

	got := resolver.Resolve(context.Background(), &Principal{
		UID:   "uid-1",
		Email: "mina@example.com",
	})

	if got.Role != "reader" {
		t.Fatalf("first-login role = %q, want reader", got.Role)
	}
	if got.DisplayName != "Friend" {
		t.Fatalf("fallback display name = %q, want Friend", got.DisplayName)
	}
	if !strings.Contains(got.PhotoURL, "ui-avatars.com") {
		t.Fatalf("fallback photo URL = %q", got.PhotoURL)
	}
	if len(profiles.created) != 1 || profiles.created[0].UID != "uid-1" {
		t.Fatalf("expected one created profile for uid-1, got %+v", profiles.created)
	}
}

func TestResolveLoadsPersistedRole(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.users["uid-2"] = store.UserProfile{
		UID:         "uid-2",
		Email:       "juno@example.com",
		DisplayName: "준호",
		Role:        "reporter",
	}
	resolver := NewResolver(profiles, adminEmail)

	got := resolver.Resolve(context.Background(), &Principal{UID: "uid-2", Email: "juno@example.com"})
	if got.Role != "reporter" {
		t.Fatalf("role = %q, want reporter", got.Role)
	}
	if got.DisplayName != "준호" {
		t.Fatalf("display name = %q, want persisted name", got.DisplayName)
	}
	if len(profiles.created) != 0 {
		t.Fatalf("existing profile should not be recreated, got %+v", profiles.created)
	}
}

func TestResolveMissingRoleDefaultsToReader(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.users["uid-3"] = store.UserProfile{UID: "uid-3", Role: ""}
	resolver := NewResolver(profiles, adminEmail)

	got := resolver.Resolve(context.Background(), &Principal{UID: "uid-3"})
	if got.Role != "reader" {
		t.Fatalf("role = %q, want reader", got.Role)
	}
}

func TestResolveAdminOverride(t *testing.T) {
	cases := []struct {
		name   string
		stored string
	}{
		{name: "no backing record", stored: ""},
		{name: "persisted reader", stored: "reader"},
		{name: "persisted reporter", stored: "reporter"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profiles := newFakeProfileStore()
			if tc.stored != "" {
				profiles.users["uid-admin"] = store.UserProfile{UID: "uid-admin", Email: adminEmail, Role: tc.stored}
			}
			resolver := NewResolver(profiles, adminEmail)

			got := resolver.Resolve(context.Background(), &Principal{UID: "uid-admin", Email: adminEmail})
			if got.Role != "admin" {
				t.Fatalf("admin-email role = %q, want admin", got.Role)
			}
		})
	}
}

func TestResolveSurvivesStoreFailure(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.getErr = errors.New("backend unavailable")
	resolver := NewResolver(profiles, adminEmail)

	got := resolver.Resolve(context.Background(), &Principal{UID: "uid-4", Email: "dana@example.com"})
	if got == nil {
		t.Fatal("authentication must not be blocked by a profile-store failure")
	}
	if got.Role != "reader" {
		t.Fatalf("degraded role = %q, want reader", got.Role)
	}

	admin := resolver.Resolve(context.Background(), &Principal{UID: "uid-5", Email: adminEmail})
	if admin.Role != "admin" {
		t.Fatalf("admin override must apply even when the store is down, got %q", admin.Role)
	}
}
