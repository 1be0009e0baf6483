package rbac

import (
	"testing"

	"kidpress/api/internal/store"
)

func profile(uid, email, role string) *store.UserProfile {
	return &store.UserProfile{UID: uid, Email: email, Role: role}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"reporter", RoleReporter},
		{"reader", RoleReader},
		{"", RoleReader},
		{"superuser", RoleReader},
		{"Admin", RoleReader},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanWriteArticle(t *testing.T) {
	tests := []struct {
		name string
		user *store.UserProfile
		want bool
	}{
		{"admin", profile("u1", "a@news.kr", "admin"), true},
		{"reporter", profile("u2", "r@news.kr", "reporter"), true},
		{"reader", profile("u3", "k@news.kr", "reader"), false},
		{"unknown role", profile("u4", "x@news.kr", "editor"), false},
		{"signed out", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanWriteArticle(tt.user); got != tt.want {
				t.Errorf("CanWriteArticle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanEditArticle(t *testing.T) {
	article := &store.Article{ID: "art_1", AuthorID: "u_author"}

	tests := []struct {
		name string
		user *store.UserProfile
		want bool
	}{
		{"admin edits anything", profile("u_other", "a@news.kr", "admin"), true},
		{"reporter edits own", profile("u_author", "r@news.kr", "reporter"), true},
		{"reporter cannot edit others", profile("u_other", "r2@news.kr", "reporter"), false},
		{"reader cannot edit own", profile("u_author", "k@news.kr", "reader"), false},
		{"signed out", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditArticle(tt.user, article); got != tt.want {
				t.Errorf("CanEditArticle = %v, want %v", got, tt.want)
			}
		})
	}

	if CanEditArticle(profile("u1", "a@news.kr", "admin"), nil) {
		t.Error("CanEditArticle with nil article should be false")
	}
}

func TestCanDeleteArticle(t *testing.T) {
	author := profile("u_author", "r@news.kr", "reporter")
	if CanDeleteArticle(author) {
		t.Error("reporter must not delete articles, even their own")
	}
	if !CanDeleteArticle(profile("u1", "a@news.kr", "admin")) {
		t.Error("admin should delete articles")
	}
	if CanDeleteArticle(nil) {
		t.Error("signed-out delete should be false")
	}
}

func TestCanManageCategories(t *testing.T) {
	if !CanManageCategories(profile("u1", "a@news.kr", "admin")) {
		t.Error("admin should manage categories")
	}
	if CanManageCategories(profile("u2", "r@news.kr", "reporter")) {
		t.Error("reporter must not manage categories")
	}
	if CanManageCategories(nil) {
		t.Error("signed-out manage should be false")
	}
}

func TestCanToggleReporter(t *testing.T) {
	const adminEmail = "chief@news.kr"
	admin := profile("u_admin", adminEmail, "admin")

	tests := []struct {
		name   string
		user   *store.UserProfile
		target *store.UserProfile
		want   bool
	}{
		{"admin toggles reader", admin, profile("u1", "k@news.kr", "reader"), true},
		{"admin toggles reporter", admin, profile("u2", "r@news.kr", "reporter"), true},
		{"admin account is never a target", admin, profile("u_admin", adminEmail, "admin"), false},
		{"reporter cannot toggle", profile("u2", "r@news.kr", "reporter"), profile("u1", "k@news.kr", "reader"), false},
		{"reader cannot toggle", profile("u3", "k@news.kr", "reader"), profile("u1", "k2@news.kr", "reader"), false},
		{"nil target", admin, nil, false},
		{"nil user", nil, profile("u1", "k@news.kr", "reader"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanToggleReporter(tt.user, tt.target, adminEmail); got != tt.want {
				t.Errorf("CanToggleReporter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanComment(t *testing.T) {
	for _, role := range []string{"admin", "reporter", "reader"} {
		if !CanComment(profile("u1", "x@news.kr", role)) {
			t.Errorf("role %q should be able to comment", role)
		}
	}
	if CanComment(nil) {
		t.Error("signed-out comment should be false")
	}
}
