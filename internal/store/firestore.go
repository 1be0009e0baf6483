// Package store wraps the Firestore collections backing the newspaper:
// users, credentials, articles, categories, and comments.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	colUsers       = "users"
	colCredentials = "credentials"
	colArticles    = "articles"
	colCategories  = "categories"
	colComments    = "comments"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// FirestoreStore implements the data access layer on top of a Firestore
// project. No multi-document transactions are used; category snapshots on
// articles are read-then-write and eventually consistent.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// wrapErr converts Firestore status codes into the store's sentinel errors
// so callers can distinguish a missing record and a rules rejection from a
// transient failure.
func wrapErr(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case codes.PermissionDenied:
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// --- users ---

func (s *FirestoreStore) GetUser(ctx context.Context, uid string) (UserProfile, error) {
	snap, err := s.client.Collection(colUsers).Doc(uid).Get(ctx)
	if err != nil {
		return UserProfile{}, wrapErr("get user", err)
	}
	var user UserProfile
	if err := snap.DataTo(&user); err != nil {
		return UserProfile{}, fmt.Errorf("unmarshal user %q: %w", uid, err)
	}
	user.UID = snap.Ref.ID
	return user, nil
}

func (s *FirestoreStore) GetUserByEmail(ctx context.Context, email string) (UserProfile, error) {
	iter := s.client.Collection(colUsers).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return UserProfile{}, fmt.Errorf("get user by email: %w", ErrNotFound)
	}
	if err != nil {
		return UserProfile{}, wrapErr("get user by email", err)
	}
	var user UserProfile
	if err := snap.DataTo(&user); err != nil {
		return UserProfile{}, fmt.Errorf("unmarshal user %q: %w", email, err)
	}
	user.UID = snap.Ref.ID
	return user, nil
}

// CreateUser writes the profile document keyed by its UID.
func (s *FirestoreStore) CreateUser(ctx context.Context, user UserProfile) error {
	if _, err := s.client.Collection(colUsers).Doc(user.UID).Set(ctx, user); err != nil {
		return wrapErr("create user", err)
	}
	return nil
}

// UpdateUserRole persists a role change made by the admin dashboard.
func (s *FirestoreStore) UpdateUserRole(ctx context.Context, uid, role string) error {
	_, err := s.client.Collection(colUsers).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
	})
	if err != nil {
		return wrapErr("update user role", err)
	}
	return nil
}

func (s *FirestoreStore) ListUsers(ctx context.Context) ([]UserProfile, error) {
	iter := s.client.Collection(colUsers).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	users := []UserProfile{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapErr("list users", err)
		}
		var user UserProfile
		if err := snap.DataTo(&user); err != nil {
			return nil, fmt.Errorf("unmarshal user %q: %w", snap.Ref.ID, err)
		}
		user.UID = snap.Ref.ID
		users = append(users, user)
	}
	return users, nil
}

// --- credentials ---

func (s *FirestoreStore) GetCredentialByEmail(ctx context.Context, email string) (Credential, error) {
	iter := s.client.Collection(colCredentials).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return Credential{}, fmt.Errorf("get credential: %w", ErrNotFound)
	}
	if err != nil {
		return Credential{}, wrapErr("get credential", err)
	}
	var cred Credential
	if err := snap.DataTo(&cred); err != nil {
		return Credential{}, fmt.Errorf("unmarshal credential %q: %w", email, err)
	}
	return cred, nil
}

func (s *FirestoreStore) CreateCredential(ctx context.Context, cred Credential) error {
	if _, err := s.client.Collection(colCredentials).Doc(cred.UID).Set(ctx, cred); err != nil {
		return wrapErr("create credential", err)
	}
	return nil
}

// --- categories ---

// ListCategories returns all categories ordered by creation time ascending,
// the order the navigation shows them in. An empty registry is an empty
// slice, not an error.
func (s *FirestoreStore) ListCategories(ctx context.Context) ([]Category, error) {
	iter := s.client.Collection(colCategories).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	categories := []Category{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapErr("list categories", err)
		}
		var category Category
		if err := snap.DataTo(&category); err != nil {
			return nil, fmt.Errorf("unmarshal category %q: %w", snap.Ref.ID, err)
		}
		category.ID = snap.Ref.ID
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *FirestoreStore) GetCategory(ctx context.Context, id string) (Category, error) {
	snap, err := s.client.Collection(colCategories).Doc(id).Get(ctx)
	if err != nil {
		return Category{}, wrapErr("get category", err)
	}
	var category Category
	if err := snap.DataTo(&category); err != nil {
		return Category{}, fmt.Errorf("unmarshal category %q: %w", id, err)
	}
	category.ID = snap.Ref.ID
	return category, nil
}

// CreateCategory stores the category and returns it with its assigned id.
func (s *FirestoreStore) CreateCategory(ctx context.Context, category Category) (Category, error) {
	ref, _, err := s.client.Collection(colCategories).Add(ctx, category)
	if err != nil {
		return Category{}, wrapErr("create category", err)
	}
	category.ID = ref.ID
	return category, nil
}

// DeleteCategory removes the category unconditionally. Articles referencing
// it keep their dangling CategoryID and snapshot name.
func (s *FirestoreStore) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.client.Collection(colCategories).Doc(id).Delete(ctx); err != nil {
		return wrapErr("delete category", err)
	}
	return nil
}

// --- articles ---

func (s *FirestoreStore) InsertArticle(ctx context.Context, article Article) (Article, error) {
	ref, _, err := s.client.Collection(colArticles).Add(ctx, article)
	if err != nil {
		return Article{}, wrapErr("insert article", err)
	}
	article.ID = ref.ID
	return article, nil
}

// UpdateArticle replaces the article document. Callers are responsible for
// carrying AuthorID and CreatedAt over from the existing record.
func (s *FirestoreStore) UpdateArticle(ctx context.Context, id string, article Article) error {
	if _, err := s.client.Collection(colArticles).Doc(id).Set(ctx, article); err != nil {
		return wrapErr("update article", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteArticle(ctx context.Context, id string) error {
	if _, err := s.client.Collection(colArticles).Doc(id).Delete(ctx); err != nil {
		return wrapErr("delete article", err)
	}
	return nil
}

func (s *FirestoreStore) GetArticle(ctx context.Context, id string) (Article, error) {
	snap, err := s.client.Collection(colArticles).Doc(id).Get(ctx)
	if err != nil {
		return Article{}, wrapErr("get article", err)
	}
	var article Article
	if err := snap.DataTo(&article); err != nil {
		return Article{}, fmt.Errorf("unmarshal article %q: %w", id, err)
	}
	article.ID = snap.Ref.ID
	return article, nil
}

// ListArticles returns articles newest-first, optionally filtered by
// category. The category-filtered query fetches unordered and sorts here to
// avoid requiring a composite (categoryId, createdAt) index.
func (s *FirestoreStore) ListArticles(ctx context.Context, categoryID string, limit int) ([]Article, error) {
	var query firestore.Query
	if categoryID != "" {
		query = s.client.Collection(colArticles).Where("categoryId", "==", categoryID)
	} else {
		query = s.client.Collection(colArticles).OrderBy("createdAt", firestore.Desc)
		if limit > 0 {
			query = query.Limit(limit)
		}
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	articles := []Article{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapErr("list articles", err)
		}
		var article Article
		if err := snap.DataTo(&article); err != nil {
			return nil, fmt.Errorf("unmarshal article %q: %w", snap.Ref.ID, err)
		}
		article.ID = snap.Ref.ID
		articles = append(articles, article)
	}

	if categoryID != "" {
		articles = sortNewestFirst(articles, limit)
	}
	return articles, nil
}

// sortNewestFirst orders articles by CreatedAt descending and applies the
// limit after sorting, matching what the unfiltered OrderBy+Limit query
// would have returned.
func sortNewestFirst(articles []Article, limit int) []Article {
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}

// IncrementViews bumps the view counter with a server-side transform so
// concurrent reads do not lose updates.
func (s *FirestoreStore) IncrementViews(ctx context.Context, id string) error {
	_, err := s.client.Collection(colArticles).Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return wrapErr("increment views", err)
	}
	return nil
}

// --- comments ---

func (s *FirestoreStore) InsertComment(ctx context.Context, comment Comment) (Comment, error) {
	ref, _, err := s.client.Collection(colComments).Add(ctx, comment)
	if err != nil {
		return Comment{}, wrapErr("insert comment", err)
	}
	comment.ID = ref.ID
	return comment, nil
}

// ListCommentsByArticle fetches an article's comments with a plain equality
// filter and sorts newest-first here, again to avoid a composite index.
func (s *FirestoreStore) ListCommentsByArticle(ctx context.Context, articleID string) ([]Comment, error) {
	iter := s.client.Collection(colComments).Where("articleId", "==", articleID).Documents(ctx)
	defer iter.Stop()

	comments := []Comment{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapErr("list comments", err)
		}
		var comment Comment
		if err := snap.DataTo(&comment); err != nil {
			return nil, fmt.Errorf("unmarshal comment %q: %w", snap.Ref.ID, err)
		}
		comment.ID = snap.Ref.ID
		comments = append(comments, comment)
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// Ping verifies the Firestore connection for readiness checks.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	iter := s.client.Collection(colCategories).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return wrapErr("ping", err)
	}
	return nil
}
