// Package repository stores users and their sets in the relational store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/data/cache"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

// defaultProfileTTL applies when the data layer sets no CacheTTL.
const defaultProfileTTL = 10 * time.Minute

const userColumns = `id, user_name, email, password, avatar, bio, status, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *structs.User) error
	FindByID(ctx context.Context, id string) (*structs.User, error)
	FindByEmail(ctx context.Context, email string) (*structs.User, error)
	// LockByID reads and locks the row for the rest of the transaction in ctx.
	LockByID(ctx context.Context, id string) (*structs.User, error)
	// LockPair locks two users in id order and returns them as a, b.
	LockPair(ctx context.Context, a, b string) (*structs.User, *structs.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, user *structs.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*structs.User, error)
	Count(ctx context.Context) (int, error)
	Basics(ctx context.Context, ids ...string) ([]*structs.Basic, error)
	ContentOf(ctx context.Context, id string) (*structs.Content, error)
	AssetsOf(ctx context.Context, id string) ([]string, error)
	ContentIDs(ctx context.Context, id string) (*structs.ContentIDs, error)
	PostsByIDs(ctx context.Context, ids ...string) ([]structs.PostSummary, error)
	Invalidate(ctx context.Context, ids ...string)
}

type userRepository struct {
	d         *data.Data
	relations *relation.Store
	logger    *logger.Logger
	cache     *cache.Cache[structs.User]
}

func (r *userRepository) profileTTL() time.Duration {
	if r.d.CacheTTL > 0 {
		return r.d.CacheTTL
	}
	return defaultProfileTTL
}

func NewUserRepository(d *data.Data, relations *relation.Store, log *logger.Logger) (UserRepository, error) {
	if d == nil || d.DB == nil {
		return nil, errors.New("database is nil")
	}

	repo := &userRepository{d: d, relations: relations, logger: log}
	if d.Redis != nil {
		repo.cache = cache.NewCache[structs.User](d.Redis, "users")
	}
	return repo, nil
}

func (r *userRepository) Create(ctx context.Context, user *structs.User) error {
	ex := r.d.Executor(ctx)
	_, err := ex.ExecContext(ctx, ex.Rebind(
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		user.ID, user.UserName, user.Email, user.Password, user.Avatar, user.Bio, user.Status,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	r.logger.Debug(ctx, "User created", "user_id", user.ID)
	return nil
}

// FindByID returns the user with its sets. The row is served from the
// cache when available; sets are always read from the store. The cached
// copy carries no password hash.
func (r *userRepository) FindByID(ctx context.Context, id string) (*structs.User, error) {
	var user *structs.User
	if r.cache.Enabled() {
		if cached, err := r.cache.Get(ctx, id); err == nil && cached != nil {
			user = cached
		}
	}

	if user == nil {
		u, err := r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
		if err != nil {
			return nil, err
		}
		user = u
		if r.cache.Enabled() {
			if err := r.cache.Set(ctx, user.ID, user, r.profileTTL()); err != nil {
				r.logger.Warn(ctx, "Failed to cache user", "user_id", id, "error", err)
			}
		}
	}

	if err := r.loadSets(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail always reads the database so the password hash is present.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*structs.User, error) {
	user, err := r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, err
	}
	if err := r.loadSets(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) LockByID(ctx context.Context, id string) (*structs.User, error) {
	user, err := r.get(ctx, r.d.ForUpdate(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	if err := r.loadSets(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) LockPair(ctx context.Context, a, b string) (*structs.User, *structs.User, error) {
	ids := []string{a, b}
	sort.Strings(ids)

	locked := make(map[string]*structs.User, 2)
	for _, id := range ids {
		u, err := r.LockByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = u
	}
	return locked[a], locked[b], nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	ex := r.d.Executor(ctx)
	var n int
	if err := sqlx.GetContext(ctx, ex, &n, ex.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), id); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

// Update writes the mutable columns. An empty Password keeps the stored hash.
func (r *userRepository) Update(ctx context.Context, user *structs.User) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(
		`UPDATE users SET user_name = ?, avatar = ?, bio = ?, status = ?,
			password = COALESCE(NULLIF(?, ''), password), updated_at = ?
		WHERE id = ?`),
		user.UserName, user.Avatar, user.Bio, user.Status, user.Password, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	r.Invalidate(ctx, user.ID)
	r.logger.Debug(ctx, "User updated", "user_id", user.ID)
	return nil
}

// Delete removes the user row. Posts, comments and stories cascade.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	r.Invalidate(ctx, id)
	r.logger.Debug(ctx, "User deleted", "user_id", id)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*structs.User, error) {
	ex := r.d.Executor(ctx)
	var users []*structs.User
	if err := sqlx.SelectContext(ctx, ex, &users,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followers, err := r.relations.MembersOf(ctx, relation.UserFollowers, ids...)
	if err != nil {
		return nil, err
	}
	following, err := r.relations.MembersOf(ctx, relation.UserFollowing, ids...)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Followers = followers[u.ID]
		u.Following = following[u.ID]
		u.EnsureSets()
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	ex := r.d.Executor(ctx)
	var n int
	if err := sqlx.GetContext(ctx, ex, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Basics returns author summaries in the order of ids, skipping unknown ids.
func (r *userRepository) Basics(ctx context.Context, ids ...string) ([]*structs.Basic, error) {
	out := make([]*structs.Basic, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT id, user_name, email, avatar FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	ex := r.d.Executor(ctx)
	var rows []*structs.Basic
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load user summaries: %w", err)
	}

	byID := make(map[string]*structs.Basic, len(rows))
	for _, b := range rows {
		byID[b.ID] = b
	}
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *userRepository) ContentOf(ctx context.Context, id string) (*structs.Content, error) {
	ex := r.d.Executor(ctx)
	c := &structs.Content{
		Posts:    []structs.PostSummary{},
		Comments: []structs.CommentSummary{},
		Stories:  []structs.StorySummary{},
	}

	if err := sqlx.SelectContext(ctx, ex, &c.Posts, ex.Rebind(
		`SELECT id, image, description, created_at FROM posts WHERE user_id = ? ORDER BY created_at DESC, id`), id); err != nil {
		return nil, fmt.Errorf("load posts of user: %w", err)
	}
	if err := sqlx.SelectContext(ctx, ex, &c.Comments, ex.Rebind(
		`SELECT id, post_id, content, created_at FROM comments WHERE user_id = ? ORDER BY created_at DESC, id`), id); err != nil {
		return nil, fmt.Errorf("load comments of user: %w", err)
	}
	if err := sqlx.SelectContext(ctx, ex, &c.Stories, ex.Rebind(
		`SELECT id, image, caption, expiry_date, created_at FROM stories WHERE user_id = ? ORDER BY created_at DESC, id`), id); err != nil {
		return nil, fmt.Errorf("load stories of user: %w", err)
	}
	return c, nil
}

// AssetsOf returns the media URLs of every post and story of the user.
func (r *userRepository) AssetsOf(ctx context.Context, id string) ([]string, error) {
	ex := r.d.Executor(ctx)
	urls := []string{}
	if err := sqlx.SelectContext(ctx, ex, &urls, ex.Rebind(
		`SELECT image FROM posts WHERE user_id = ? AND image <> ''
		UNION ALL
		SELECT image FROM stories WHERE user_id = ? AND image <> ''`), id, id); err != nil {
		return nil, fmt.Errorf("load assets of user: %w", err)
	}
	return urls, nil
}

func (r *userRepository) ContentIDs(ctx context.Context, id string) (*structs.ContentIDs, error) {
	ex := r.d.Executor(ctx)
	ids := &structs.ContentIDs{Posts: []string{}, Comments: []string{}, Stories: []string{}}

	if err := sqlx.SelectContext(ctx, ex, &ids.Posts, ex.Rebind(
		`SELECT id FROM posts WHERE user_id = ?`), id); err != nil {
		return nil, fmt.Errorf("load post ids of user: %w", err)
	}
	if err := sqlx.SelectContext(ctx, ex, &ids.Comments, ex.Rebind(
		`SELECT id FROM comments WHERE user_id = ?
		UNION
		SELECT c.id FROM comments c JOIN posts p ON p.id = c.post_id WHERE p.user_id = ?`), id, id); err != nil {
		return nil, fmt.Errorf("load comment ids of user: %w", err)
	}
	if err := sqlx.SelectContext(ctx, ex, &ids.Stories, ex.Rebind(
		`SELECT id FROM stories WHERE user_id = ?`), id); err != nil {
		return nil, fmt.Errorf("load story ids of user: %w", err)
	}
	return ids, nil
}

// PostsByIDs returns post summaries in the order of ids, skipping posts
// that no longer exist.
func (r *userRepository) PostsByIDs(ctx context.Context, ids ...string) ([]structs.PostSummary, error) {
	out := make([]structs.PostSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT id, image, description, created_at FROM posts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	ex := r.d.Executor(ctx)
	var rows []structs.PostSummary
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	byID := make(map[string]structs.PostSummary, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *userRepository) Invalidate(ctx context.Context, ids ...string) {
	if !r.cache.Enabled() || len(ids) == 0 {
		return
	}
	if err := r.cache.Delete(ctx, ids...); err != nil {
		r.logger.Warn(ctx, "Failed to invalidate cached users", "user_ids", ids, "error", err)
	}
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*structs.User, error) {
	ex := r.d.Executor(ctx)
	var user structs.User
	if err := sqlx.GetContext(ctx, ex, &user, ex.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) loadSets(ctx context.Context, u *structs.User) error {
	var err error
	if u.Followers, err = r.relations.Members(ctx, relation.UserFollowers, u.ID); err != nil {
		return err
	}
	if u.Following, err = r.relations.Members(ctx, relation.UserFollowing, u.ID); err != nil {
		return err
	}
	if u.Bookmarks, err = r.relations.Members(ctx, relation.UserBookmarks, u.ID); err != nil {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
