package store

import (
	"strings"
	"time"
)

// UserProfile is a reader, reporter, or the admin. Role is persisted, but
// the configured admin email overrides it at resolve time.
type UserProfile struct {
	UID         string    `firestore:"uid"`
	Email       string    `firestore:"email"`
	DisplayName string    `firestore:"displayName"`
	PhotoURL    string    `firestore:"photoURL"`
	Role        string    `firestore:"role"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// Credential is the password record for email/password accounts. Federated
// accounts have no credential document.
type Credential struct {
	UID          string `firestore:"uid"`
	Email        string `firestore:"email"`
	PasswordHash string `firestore:"passwordHash"`
}

// Category is a navigation section. Ordered by CreatedAt ascending.
type Category struct {
	ID        string    `firestore:"-"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Article is a published piece.
//
// CategoryName and the legacy Category field are snapshots of the category's
// display name taken at write time. They are re-resolved on every create and
// update but never rewritten when the category itself is renamed or deleted;
// a dangling CategoryID degrades to the snapshot, then to a generic label.
type Article struct {
	ID           string    `firestore:"-"`
	Title        string    `firestore:"title"`
	Summary      string    `firestore:"summary"`
	Content      string    `firestore:"content"`
	CategoryID   string    `firestore:"categoryId"`
	CategoryName string    `firestore:"categoryName"`
	Category     string    `firestore:"category"` // legacy plain-text fallback
	ImageURL     string    `firestore:"imageUrl"`
	YoutubeURL   string    `firestore:"youtubeUrl"`
	AuthorID     string    `firestore:"authorId"`
	AuthorName   string    `firestore:"authorName"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
	Views        int64     `firestore:"views"`
	Tags         []string  `firestore:"tags"`
}

// DisplayCategory resolves the label shown for an article, falling back
// through the snapshot fields to the generic label for dangling references.
func (a *Article) DisplayCategory() string {
	if name := strings.TrimSpace(a.CategoryName); name != "" {
		return name
	}
	if name := strings.TrimSpace(a.Category); name != "" {
		return name
	}
	return DefaultCategoryLabel
}

// DefaultCategoryLabel is shown when an article's category was deleted and
// no snapshot survives.
const DefaultCategoryLabel = "일반"

// Comment is one entry in an article's append-only comment ledger.
// UserName and UserPhoto are snapshots taken at write time.
type Comment struct {
	ID        string    `firestore:"-"`
	ArticleID string    `firestore:"articleId"`
	UserID    string    `firestore:"userId"`
	UserName  string    `firestore:"userName"`
	UserPhoto string    `firestore:"userPhoto"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"createdAt"`
}
