package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kidpress/api/internal/aiassist"
	"kidpress/api/internal/auth"
	"kidpress/api/internal/authpw"
	"kidpress/api/internal/config"
	"kidpress/api/internal/content"
	"kidpress/api/internal/identity"
	"kidpress/api/internal/rbac"
	"kidpress/api/internal/search"
	"kidpress/api/internal/session"
	"kidpress/api/internal/store"
	"kidpress/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	User         *store.UserProfile
	JTI          string
	ExpiresAt    time.Time
}

type ArticleInput struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Content    string   `json:"content"`
	CategoryID string   `json:"categoryId"`
	ImageURL   string   `json:"imageUrl"`
	YoutubeURL string   `json:"youtubeUrl"`
	Tags       []string `json:"tags"`
}

type dataStore interface {
	GetUser(ctx context.Context, uid string) (store.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (store.UserProfile, error)
	CreateUser(ctx context.Context, user store.UserProfile) error
	UpdateUserRole(ctx context.Context, uid, role string) error
	ListUsers(ctx context.Context) ([]store.UserProfile, error)
	GetCredentialByEmail(ctx context.Context, email string) (store.Credential, error)
	CreateCredential(ctx context.Context, cred store.Credential) error
	ListCategories(ctx context.Context) ([]store.Category, error)
	GetCategory(ctx context.Context, id string) (store.Category, error)
	CreateCategory(ctx context.Context, category store.Category) (store.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	InsertArticle(ctx context.Context, article store.Article) (store.Article, error)
	UpdateArticle(ctx context.Context, id string, article store.Article) error
	DeleteArticle(ctx context.Context, id string) error
	GetArticle(ctx context.Context, id string) (store.Article, error)
	ListArticles(ctx context.Context, categoryID string, limit int) ([]store.Article, error)
	IncrementViews(ctx context.Context, id string) error
	InsertComment(ctx context.Context, comment store.Comment) (store.Comment, error)
	ListCommentsByArticle(ctx context.Context, articleID string) ([]store.Comment, error)
	Ping(ctx context.Context) error
}

type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, data session.TokenData, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (session.TokenData, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
	Ping(ctx context.Context) error
}

type googleVerifier interface {
	Verify(ctx context.Context, idToken string) (*identity.Principal, error)
}

type Service struct {
	cfg           config.Config
	store         dataStore
	sessions      sessionStore
	resolver      *identity.Resolver
	passwords     *authpw.Service
	google        googleVerifier
	assist        *aiassist.Gateway
	search        *search.Service
	sessionEvents *identity.Broadcaster
}

// New wires the service. google, assist and searchSvc may be nil when the
// corresponding backend is not configured.
func New(cfg config.Config, dataStore *store.FirestoreStore, sessions *session.RedisStore, searchSvc *search.Service, google *identity.GoogleVerifier, assist *aiassist.Gateway) *Service {
	svc := &Service{
		cfg:           cfg,
		store:         dataStore,
		sessions:      sessions,
		resolver:      identity.NewResolver(dataStore, cfg.AdminEmail),
		passwords:     authpw.NewService(dataStore),
		assist:        assist,
		search:        searchSvc,
		sessionEvents: identity.NewBroadcaster(),
	}
	if google != nil {
		svc.google = google
	}
	return svc
}

// SessionEvents exposes the sign-in/sign-out stream for observers such as
// startup logging.
func (s *Service) SessionEvents() *identity.Broadcaster {
	return s.sessionEvents
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) PingSessions(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}

// ---- auth ----

func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	principal, err := s.passwords.SignUp(ctx, email, password, displayName)
	if err != nil {
		return Session{}, mapAuthError(err)
	}
	profile := s.resolver.Resolve(ctx, principal)
	return s.issueSession(ctx, profile)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	principal, err := s.passwords.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, mapAuthError(err)
	}
	profile := s.resolver.Resolve(ctx, principal)
	return s.issueSession(ctx, profile)
}

func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (Session, error) {
	if s.google == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Google sign-in not configured", nil)
	}
	principal, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Google token invalid", nil)
	}
	profile := s.resolver.Resolve(ctx, principal)
	return s.issueSession(ctx, profile)
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, authpw.ErrEmailExists):
		return domainError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
	case errors.Is(err, authpw.ErrWeakPassword):
		return domainError(http.StatusBadRequest, "WEAK_PASSWORD", err.Error(), nil)
	case errors.Is(err, authpw.ErrMissingFields):
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, authpw.ErrInvalidCredentials):
		return domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	default:
		return err
	}
}

func (s *Service) issueSession(ctx context.Context, profile *store.UserProfile) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:   profile.UID,
		Email: profile.Email,
		Name:  profile.DisplayName,
		Role:  profile.Role,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), session.TokenData{
		UID:       profile.UID,
		Email:     profile.Email,
		CreatedAt: now,
	}, refreshExpires); err != nil {
		return Session{}, err
	}

	s.sessionEvents.Publish(profile)

	return Session{
		Token:        token,
		RefreshToken: refresh,
		User:         profile,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	data, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			return Session{}, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
		}
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	profile := s.resolver.Resolve(ctx, &identity.Principal{UID: data.UID, Email: data.Email})
	return s.issueSession(ctx, profile)
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.sessions.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	// Roles live in the store, not the token. Resolving again means an
	// admin toggle takes effect on the next request.
	profile := s.resolver.Resolve(ctx, &identity.Principal{
		UID:         claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
	})

	return Session{
		Token:     token,
		User:      profile,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, sess Session, refreshToken string) error {
	if sess.JTI != "" {
		_ = s.sessions.RevokeAccessToken(ctx, sess.JTI, sess.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	s.sessionEvents.Publish(nil)
	return nil
}

// ---- categories ----

func (s *Service) ListCategories(ctx context.Context) ([]store.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, user *store.UserProfile, name string) (store.Category, error) {
	if !rbac.CanManageCategories(user) {
		return store.Category{}, errForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Category{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Category name is required", nil)
	}
	return s.store.CreateCategory(ctx, store.Category{
		Name:      name,
		CreatedAt: time.Now(),
	})
}

func (s *Service) DeleteCategory(ctx context.Context, user *store.UserProfile, id string) error {
	if !rbac.CanManageCategories(user) {
		return errForbidden
	}
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}
	// Articles keep their snapshot; dangling references fall back to the
	// default label at read time.
	return s.store.DeleteCategory(ctx, id)
}

// ---- articles ----

var errForbidden = domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)

func (s *Service) CreateArticle(ctx context.Context, user *store.UserProfile, input ArticleInput) (store.Article, error) {
	if !rbac.CanWriteArticle(user) {
		return store.Article{}, errForbidden
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return store.Article{}, domainError(http.StatusUnprocessableEntity, "EMPTY_CONTENT", "Title and content are required", nil)
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return store.Article{}, err
	}
	if len(categories) == 0 {
		return store.Article{}, domainError(http.StatusUnprocessableEntity, "NO_CATEGORIES", "Create a category before publishing", nil)
	}
	category, err := pickCategory(categories, input.CategoryID)
	if err != nil {
		return store.Article{}, err
	}
	if err := validateYoutubeURL(input.YoutubeURL); err != nil {
		return store.Article{}, err
	}

	now := time.Now()
	article := store.Article{
		Title:        strings.TrimSpace(input.Title),
		Summary:      strings.TrimSpace(input.Summary),
		Content:      content.SanitizeHTML(input.Content),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Category:     category.Name,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		YoutubeURL:   strings.TrimSpace(input.YoutubeURL),
		AuthorID:     user.UID,
		AuthorName:   user.DisplayName,
		CreatedAt:    now,
		UpdatedAt:    now,
		Views:        0,
		Tags:         nonNilTags(input.Tags),
	}

	created, err := s.store.InsertArticle(ctx, article)
	if err != nil {
		return store.Article{}, err
	}
	s.indexArticle(created)
	return created, nil
}

func (s *Service) UpdateArticle(ctx context.Context, user *store.UserProfile, id string, input ArticleInput) (store.Article, error) {
	existing, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return store.Article{}, err
	}
	if !rbac.CanEditArticle(user, &existing) {
		return store.Article{}, errForbidden
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return store.Article{}, domainError(http.StatusUnprocessableEntity, "EMPTY_CONTENT", "Title and content are required", nil)
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return store.Article{}, err
	}
	if len(categories) == 0 {
		return store.Article{}, domainError(http.StatusUnprocessableEntity, "NO_CATEGORIES", "Create a category before publishing", nil)
	}
	category, err := pickCategory(categories, input.CategoryID)
	if err != nil {
		return store.Article{}, err
	}
	if err := validateYoutubeURL(input.YoutubeURL); err != nil {
		return store.Article{}, err
	}

	updated := store.Article{
		ID:           existing.ID,
		Title:        strings.TrimSpace(input.Title),
		Summary:      strings.TrimSpace(input.Summary),
		Content:      content.SanitizeHTML(input.Content),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Category:     category.Name,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		YoutubeURL:   strings.TrimSpace(input.YoutubeURL),
		AuthorID:     existing.AuthorID,
		AuthorName:   existing.AuthorName,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now(),
		Views:        existing.Views,
		Tags:         nonNilTags(input.Tags),
	}
	if err := s.store.UpdateArticle(ctx, id, updated); err != nil {
		return store.Article{}, err
	}
	s.indexArticle(updated)
	return updated, nil
}

func (s *Service) DeleteArticle(ctx context.Context, user *store.UserProfile, id string) error {
	if !rbac.CanDeleteArticle(user) {
		return errForbidden
	}
	if _, err := s.store.GetArticle(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteArticle(ctx, id); err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeleteArticle(id)
	}
	return nil
}

func (s *Service) GetArticle(ctx context.Context, id string) (store.Article, error) {
	return s.store.GetArticle(ctx, id)
}

func (s *Service) ListArticles(ctx context.Context, categoryID string, limit int) ([]store.Article, error) {
	return s.store.ListArticles(ctx, categoryID, limit)
}

// IncrementViews is fire-and-forget from the caller's perspective; a failed
// counter bump never breaks the read path.
func (s *Service) IncrementViews(ctx context.Context, id string) error {
	return s.store.IncrementViews(ctx, id)
}

func pickCategory(categories []store.Category, id string) (store.Category, error) {
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return store.Category{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unknown category", nil)
}

func validateYoutubeURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if content.YoutubeVideoID(url) == "" {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unrecognized YouTube link", nil)
	}
	return nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (s *Service) indexArticle(a store.Article) {
	if s.search == nil {
		return
	}
	s.search.IndexArticle(search.ArticleRecord{
		ID:           a.ID,
		Title:        a.Title,
		Summary:      a.Summary,
		CategoryID:   a.CategoryID,
		CategoryName: a.DisplayCategory(),
		Tags:         a.Tags,
	})
}

// ReindexArticles pushes every stored article into the search index.
func (s *Service) ReindexArticles(ctx context.Context) error {
	if s.search == nil {
		return nil
	}
	articles, err := s.store.ListArticles(ctx, "", 0)
	if err != nil {
		return err
	}
	records := make([]search.ArticleRecord, 0, len(articles))
	for _, a := range articles {
		records = append(records, search.ArticleRecord{
			ID:           a.ID,
			Title:        a.Title,
			Summary:      a.Summary,
			CategoryID:   a.CategoryID,
			CategoryName: a.DisplayCategory(),
			Tags:         a.Tags,
		})
	}
	s.search.ReindexAll(records)
	return nil
}

func (s *Service) Search(q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Total: 0, Query: q.Text}
	}
	return s.search.Search(q)
}

// ---- comments ----

func (s *Service) AddComment(ctx context.Context, user *store.UserProfile, articleID, text string) (store.Comment, error) {
	if !rbac.CanComment(user) {
		return store.Comment{}, errForbidden
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Comment{}, domainError(http.StatusUnprocessableEntity, "EMPTY_CONTENT", "Comment text is required", nil)
	}
	if _, err := s.store.GetArticle(ctx, articleID); err != nil {
		return store.Comment{}, err
	}
	return s.store.InsertComment(ctx, store.Comment{
		ArticleID: articleID,
		UserID:    user.UID,
		UserName:  user.DisplayName,
		UserPhoto: user.PhotoURL,
		Content:   content.SanitizeHTML(text),
		CreatedAt: time.Now(),
	})
}

func (s *Service) ListComments(ctx context.Context, articleID string) ([]store.Comment, error) {
	return s.store.ListCommentsByArticle(ctx, articleID)
}

// ---- users ----

func (s *Service) ListUsers(ctx context.Context, user *store.UserProfile) ([]store.UserProfile, error) {
	if user == nil || rbac.Normalize(user.Role) != rbac.RoleAdmin {
		return nil, errForbidden
	}
	return s.store.ListUsers(ctx)
}

func (s *Service) ToggleReporter(ctx context.Context, user *store.UserProfile, targetUID string) (store.UserProfile, error) {
	target, err := s.store.GetUser(ctx, targetUID)
	if err != nil {
		return store.UserProfile{}, err
	}
	if !rbac.CanToggleReporter(user, &target, s.resolver.AdminEmail()) {
		return store.UserProfile{}, errForbidden
	}

	next := string(rbac.RoleReporter)
	if rbac.Normalize(target.Role) == rbac.RoleReporter {
		next = string(rbac.RoleReader)
	}
	if err := s.store.UpdateUserRole(ctx, targetUID, next); err != nil {
		return store.UserProfile{}, err
	}
	target.Role = next
	return target, nil
}

// ---- AI assist ----

func (s *Service) PolishArticle(ctx context.Context, user *store.UserProfile, text string) (string, error) {
	if !rbac.CanWriteArticle(user) {
		return "", errForbidden
	}
	if strings.TrimSpace(text) == "" {
		return "", domainError(http.StatusUnprocessableEntity, "EMPTY_CONTENT", "Content is required", nil)
	}
	if s.assist == nil {
		return text, nil
	}
	return s.assist.PolishArticle(ctx, text), nil
}

func (s *Service) GenerateSummary(ctx context.Context, user *store.UserProfile, text string) (string, error) {
	if !rbac.CanWriteArticle(user) {
		return "", errForbidden
	}
	if strings.TrimSpace(text) == "" {
		return "", domainError(http.StatusUnprocessableEntity, "EMPTY_CONTENT", "Content is required", nil)
	}
	if s.assist == nil {
		return aiassist.SummaryFailedPlaceholder, nil
	}
	return s.assist.GenerateSummary(ctx, text), nil
}
