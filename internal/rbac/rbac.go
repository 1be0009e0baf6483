// Package rbac holds the authorization rules for the newspaper. Every
// predicate is pure and synchronous so callers can reject an action before
// issuing any backend call.
package rbac

import "kidpress/api/internal/store"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReporter Role = "reporter"
	RoleReader   Role = "reader"
)

// Normalize maps a persisted role string to a known Role. Unknown or
// missing values fall back to reader.
func Normalize(role string) Role {
	switch Role(role) {
	case RoleAdmin, RoleReporter, RoleReader:
		return Role(role)
	default:
		return RoleReader
	}
}

// CanWriteArticle reports whether user may publish a new article.
func CanWriteArticle(user *store.UserProfile) bool {
	if user == nil {
		return false
	}
	role := Normalize(user.Role)
	return role == RoleAdmin || role == RoleReporter
}

// CanEditArticle reports whether user may modify article. Admins edit
// anything; reporters edit only their own pieces.
func CanEditArticle(user *store.UserProfile, article *store.Article) bool {
	if user == nil || article == nil {
		return false
	}
	switch Normalize(user.Role) {
	case RoleAdmin:
		return true
	case RoleReporter:
		return user.UID == article.AuthorID
	default:
		return false
	}
}

// CanDeleteArticle reports whether user may delete articles.
func CanDeleteArticle(user *store.UserProfile) bool {
	return user != nil && Normalize(user.Role) == RoleAdmin
}

// CanManageCategories reports whether user may create or delete categories.
func CanManageCategories(user *store.UserProfile) bool {
	return user != nil && Normalize(user.Role) == RoleAdmin
}

// CanToggleReporter reports whether user may flip target between reporter
// and reader. The account matching adminEmail is never a valid target; its
// role is pinned to admin.
func CanToggleReporter(user, target *store.UserProfile, adminEmail string) bool {
	if user == nil || target == nil {
		return false
	}
	if Normalize(user.Role) != RoleAdmin {
		return false
	}
	return target.Email != adminEmail
}

// CanComment reports whether user may post a comment. Any signed-in role
// qualifies.
func CanComment(user *store.UserProfile) bool {
	return user != nil
}
