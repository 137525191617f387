// Package repository stores comments.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncobase/socialhub/biz/comment/structs"
	"github.com/ncobase/socialhub/data"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("comment not found")

const commentColumns = `id, post_id, user_id, content, created_at, updated_at`

type CommentRepository interface {
	Create(ctx context.Context, comment *structs.Comment) error
	FindByID(ctx context.Context, id string) (*structs.Comment, error)
	LockByID(ctx context.Context, id string) (*structs.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*structs.Comment, error)
	Update(ctx context.Context, comment *structs.Comment) error
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	d *data.Data
}

func NewCommentRepository(d *data.Data) CommentRepository {
	return &commentRepository{d: d}
}

func (r *commentRepository) Create(ctx context.Context, comment *structs.Comment) error {
	ex := r.d.Executor(ctx)
	_, err := ex.ExecContext(ctx, ex.Rebind(
		`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*structs.Comment, error) {
	return r.get(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
}

func (r *commentRepository) LockByID(ctx context.Context, id string) (*structs.Comment, error) {
	return r.get(ctx, r.d.ForUpdate(`SELECT `+commentColumns+` FROM comments WHERE id = ?`), id)
}

// ListByPost returns the comments of a post, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*structs.Comment, error) {
	ex := r.d.Executor(ctx)
	comments := []*structs.Comment{}
	if err := sqlx.SelectContext(ctx, ex, &comments, ex.Rebind(
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY created_at, id`), postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *structs.Comment) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`),
		comment.Content, comment.UpdatedAt, comment.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) get(ctx context.Context, query, id string) (*structs.Comment, error) {
	ex := r.d.Executor(ctx)
	var comment structs.Comment
	if err := sqlx.GetContext(ctx, ex, &comment, ex.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}
