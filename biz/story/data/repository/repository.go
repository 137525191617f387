// Package repository stores stories.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/socialhub/biz/story/structs"
	"github.com/ncobase/socialhub/data"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("story not found")

const storyColumns = `id, user_id, image, media_type, caption, expiry_date, created_at, updated_at`

type StoryRepository interface {
	Create(ctx context.Context, story *structs.Story) error
	FindByID(ctx context.Context, id string) (*structs.Story, error)
	LockByID(ctx context.Context, id string) (*structs.Story, error)
	ListByUser(ctx context.Context, userID string) ([]*structs.Story, error)
	// ListExpired returns up to limit stories whose expiry is at or before t, oldest first.
	ListExpired(ctx context.Context, t time.Time, limit int) ([]*structs.Story, error)
	Update(ctx context.Context, story *structs.Story) error
	Delete(ctx context.Context, id string) error
}

type storyRepository struct {
	d *data.Data
}

func NewStoryRepository(d *data.Data) StoryRepository {
	return &storyRepository{d: d}
}

func (r *storyRepository) Create(ctx context.Context, story *structs.Story) error {
	ex := r.d.Executor(ctx)
	_, err := ex.ExecContext(ctx, ex.Rebind(
		`INSERT INTO stories (`+storyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		story.ID, story.UserID, story.Image, story.MediaType, story.Caption,
		story.ExpiryDate, story.CreatedAt, story.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	return nil
}

func (r *storyRepository) FindByID(ctx context.Context, id string) (*structs.Story, error) {
	return r.get(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)
}

func (r *storyRepository) LockByID(ctx context.Context, id string) (*structs.Story, error) {
	return r.get(ctx, r.d.ForUpdate(`SELECT `+storyColumns+` FROM stories WHERE id = ?`), id)
}

func (r *storyRepository) ListByUser(ctx context.Context, userID string) ([]*structs.Story, error) {
	ex := r.d.Executor(ctx)
	stories := []*structs.Story{}
	if err := sqlx.SelectContext(ctx, ex, &stories, ex.Rebind(
		`SELECT `+storyColumns+` FROM stories WHERE user_id = ? ORDER BY created_at DESC, id`), userID); err != nil {
		return nil, fmt.Errorf("list stories of user: %w", err)
	}
	return stories, nil
}

func (r *storyRepository) ListExpired(ctx context.Context, t time.Time, limit int) ([]*structs.Story, error) {
	ex := r.d.Executor(ctx)
	stories := []*structs.Story{}
	if err := sqlx.SelectContext(ctx, ex, &stories, ex.Rebind(
		`SELECT `+storyColumns+` FROM stories WHERE expiry_date <= ? ORDER BY expiry_date, id LIMIT ?`),
		t.UTC(), limit); err != nil {
		return nil, fmt.Errorf("list expired stories: %w", err)
	}
	return stories, nil
}

func (r *storyRepository) Update(ctx context.Context, story *structs.Story) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(
		`UPDATE stories SET caption = ?, updated_at = ? WHERE id = ?`),
		story.Caption, story.UpdatedAt, story.ID)
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storyRepository) Delete(ctx context.Context, id string) error {
	ex := r.d.Executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM stories WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storyRepository) get(ctx context.Context, query, id string) (*structs.Story, error) {
	ex := r.d.Executor(ctx)
	var story structs.Story
	if err := sqlx.GetContext(ctx, ex, &story, ex.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get story: %w", err)
	}
	return &story, nil
}
