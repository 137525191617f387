// Package repository stores posts.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncobase/socialhub/biz/post/structs"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/paging"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("post not found")

const postColumns = `id, user_id, image, media_type, description, created_at, updated_at`

type PostRepository interface {
	Create(ctx context.Context, post *structs.Post) error
	// FindByID returns the row only; sets and comments are loaded by the service.
	FindByID(ctx context.Context, id string) (*structs.Post, error)
	LockByID(ctx context.Context, id string) (*structs.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*structs.Post, error)
	// Search pages through posts whose description contains p.Q, most
	// liked first, and returns the total number of matches.
	Search(ctx context.Context, p paging.Params) ([]*structs.Post, int, error)
	Update(ctx context.Context, post *structs.Post) error
	Delete(ctx context.Context, id string) error
	Comments(ctx context.Context, postIDs ...string) (map[string][]*structs.Comment, error)
	CommentIDs(ctx context.Context, postID string) ([]string, error)
}

type postRepository struct {
	d *data.Data
}

func NewPostRepository(d *data.Data) PostRepository {
	return &postRepository{d: d}
}

func (r *postRepository) Create(ctx context.Context, post *structs.Post) error {
	ex := r.d.Executor(ctx)
	_, err := ex.ExecContext(ctx, ex.Rebind(
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		post.ID, post.UserID, post.Image, post.MediaType, post.Description, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*structs.Post, error) {
	return r.get(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
}

func (r *postRepository) LockByID(ctx context.Context, id string) (*structs.Post, error) {
	return r.get(ctx, r.d.ForUpdate(`SELECT `+postColumns+` FROM posts WHERE id = ?`), id)
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]*structs.Post, error) {
	ex := r.d.Executor(ctx)
	posts := []*structs.Post{}
	if err := sqlx.SelectContext(ctx, ex, &posts, ex.Rebind(
		`SELECT `+postColumns+` FROM posts WHERE user_id = ? ORDER BY created_at DESC, id`), userID); err != nil {
		return nil, fmt.Errorf("list posts of user: %w", err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, p paging.Params) ([]*structs.Post, int, error) {
	p = p.Normalize()
	ex := r.d.Executor(ctx)
	pattern := p.LikePattern()

	var total int
	if err := sqlx.GetContext(ctx, ex, &total, ex.Rebind(
		`SELECT COUNT(*) FROM posts WHERE LOWER(description) LIKE ? ESCAPE '\'`), pattern); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts := []*structs.Post{}
	err := sqlx.SelectContext(ctx, ex, &posts, ex.Rebind(
		`SELECT p.id, p.user_id, p.image, p.media_type, p.description, p.created_at, p.updated_at
		FROM posts p
		LEFT JOIN (
			SELECT owner_id, COUNT(*) AS n FROM relations WHERE kind = ? GROUP BY owner_id
		) l ON l.owner_id = p.id
		WHERE LOWER(p.description) LIKE ? ESCAPE '\'
		ORDER BY COALESCE(l.n, 0) DESC, p.created_at DESC, p.id
		LIMIT ? OFFSET ?`),
		string(relation.PostLikes), pattern, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *structs.Post) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(
		`UPDATE posts SET description = ?, updated_at = ? WHERE id = ?`),
		post.Description, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post; its comments cascade.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Comments loads the comments of several posts, oldest first. Every
// requested post has an entry.
func (r *postRepository) Comments(ctx context.Context, postIDs ...string) (map[string][]*structs.Comment, error) {
	out := make(map[string][]*structs.Comment, len(postIDs))
	for _, id := range postIDs {
		out[id] = []*structs.Comment{}
	}
	if len(postIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, post_id, user_id, content, created_at FROM comments WHERE post_id IN (?) ORDER BY created_at, id`,
		postIDs)
	if err != nil {
		return nil, err
	}
	ex := r.d.Executor(ctx)
	var rows []*structs.Comment
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	for _, c := range rows {
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, nil
}

func (r *postRepository) CommentIDs(ctx context.Context, postID string) ([]string, error) {
	ex := r.d.Executor(ctx)
	ids := []string{}
	if err := sqlx.SelectContext(ctx, ex, &ids, ex.Rebind(
		`SELECT id FROM comments WHERE post_id = ?`), postID); err != nil {
		return nil, fmt.Errorf("load comment ids: %w", err)
	}
	return ids, nil
}

func (r *postRepository) get(ctx context.Context, query, id string) (*structs.Post, error) {
	ex := r.d.Executor(ctx)
	var post structs.Post
	if err := sqlx.GetContext(ctx, ex, &post, ex.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}
