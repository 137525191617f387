package relation

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/socialhub/data"

	"github.com/jmoiron/sqlx"
)

// Kind names one family of sets, e.g. the likes of every post.
type Kind string

const (
	PostLikes     Kind = "post.likes"
	PostShares    Kind = "post.shares"
	CommentLikes  Kind = "comment.likes"
	StoryLikes    Kind = "story.likes"
	StoryViews    Kind = "story.views"
	UserBookmarks Kind = "user.bookmarks"
	UserFollowing Kind = "user.following"
	UserFollowers Kind = "user.followers"
)

// Mode selects how Apply changes a set.
type Mode int

const (
	ModeToggle Mode = iota
	ModeAdd
	ModeRemove
)

// Store persists sets as (kind, owner_id, member_id) rows.
//
// Mutations must run inside data.WithTx after the caller has locked the
// owning row, so concurrent toggles on one owner serialize and none is lost.
type Store struct {
	d *data.Data
}

// NewStore creates a relation store over d.
func NewStore(d *data.Data) *Store {
	return &Store{d: d}
}

// Members returns the set of owner in insertion order, never nil.
func (s *Store) Members(ctx context.Context, kind Kind, owner string) ([]string, error) {
	ex := s.d.Executor(ctx)
	members := []string{}
	err := sqlx.SelectContext(ctx, ex, &members, ex.Rebind(
		`SELECT member_id FROM relations WHERE kind = ? AND owner_id = ? ORDER BY created_at, member_id`),
		string(kind), owner)
	if err != nil {
		return nil, fmt.Errorf("relation: load %s of %s: %w", kind, owner, err)
	}
	return members, nil
}

// MembersOf loads the sets of several owners at once. Every requested
// owner has an entry, empty when it has no members.
func (s *Store) MembersOf(ctx context.Context, kind Kind, owners ...string) (map[string][]string, error) {
	out := make(map[string][]string, len(owners))
	for _, o := range owners {
		out[o] = []string{}
	}
	if len(owners) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(
		`SELECT owner_id, member_id FROM relations WHERE kind = ? AND owner_id IN (?) ORDER BY created_at, member_id`,
		string(kind), owners)
	if err != nil {
		return nil, err
	}

	ex := s.d.Executor(ctx)
	var rows []struct {
		OwnerID  string `db:"owner_id"`
		MemberID string `db:"member_id"`
	}
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("relation: load %s: %w", kind, err)
	}
	for _, r := range rows {
		out[r.OwnerID] = append(out[r.OwnerID], r.MemberID)
	}
	return out, nil
}

// OwnersOf returns the owners whose kind set contains member, e.g. the
// posts a user liked.
func (s *Store) OwnersOf(ctx context.Context, kind Kind, member string) ([]string, error) {
	ex := s.d.Executor(ctx)
	owners := []string{}
	err := sqlx.SelectContext(ctx, ex, &owners, ex.Rebind(
		`SELECT owner_id FROM relations WHERE kind = ? AND member_id = ? ORDER BY created_at, owner_id`),
		string(kind), member)
	if err != nil {
		return nil, fmt.Errorf("relation: owners of %s in %s: %w", member, kind, err)
	}
	return owners, nil
}

// Has reports whether member is in the set of owner.
func (s *Store) Has(ctx context.Context, kind Kind, owner, member string) (bool, error) {
	ex := s.d.Executor(ctx)
	var n int
	err := sqlx.GetContext(ctx, ex, &n, ex.Rebind(
		`SELECT COUNT(*) FROM relations WHERE kind = ? AND owner_id = ? AND member_id = ?`),
		string(kind), owner, member)
	if err != nil {
		return false, fmt.Errorf("relation: check %s: %w", kind, err)
	}
	return n > 0, nil
}

// Count returns the size of the set of owner.
func (s *Store) Count(ctx context.Context, kind Kind, owner string) (int, error) {
	ex := s.d.Executor(ctx)
	var n int
	err := sqlx.GetContext(ctx, ex, &n, ex.Rebind(
		`SELECT COUNT(*) FROM relations WHERE kind = ? AND owner_id = ?`),
		string(kind), owner)
	if err != nil {
		return 0, fmt.Errorf("relation: count %s: %w", kind, err)
	}
	return n, nil
}

// Toggle flips the membership of member and reports whether it is a member
// afterwards.
func (s *Store) Toggle(ctx context.Context, kind Kind, owner, member string) (bool, error) {
	in, _, err := s.Apply(ctx, kind, owner, member, ModeToggle)
	return in, err
}

// AddIfAbsent adds member unless present and reports whether the set changed.
func (s *Store) AddIfAbsent(ctx context.Context, kind Kind, owner, member string) (bool, error) {
	_, changed, err := s.Apply(ctx, kind, owner, member, ModeAdd)
	return changed, err
}

// Apply reads the current set, computes the new one with the pure set
// functions and persists the single row difference. It reports membership
// afterwards and whether anything changed.
func (s *Store) Apply(ctx context.Context, kind Kind, owner, member string, mode Mode) (in bool, changed bool, err error) {
	before, err := s.Members(ctx, kind, owner)
	if err != nil {
		return false, false, err
	}

	var after []string
	switch mode {
	case ModeToggle:
		after, _ = Toggle(before, member)
	case ModeAdd:
		after, _ = AddIfAbsent(before, member)
	case ModeRemove:
		after, _ = Remove(before, member)
	default:
		return false, false, fmt.Errorf("relation: unknown mode %d", mode)
	}

	in = Contains(after, member)
	if in == Contains(before, member) {
		return in, false, nil
	}

	ex := s.d.Executor(ctx)
	if in {
		_, err = ex.ExecContext(ctx, ex.Rebind(
			`INSERT INTO relations (kind, owner_id, member_id, created_at) VALUES (?, ?, ?, ?)`),
			string(kind), owner, member, time.Now().UTC())
	} else {
		_, err = ex.ExecContext(ctx, ex.Rebind(
			`DELETE FROM relations WHERE kind = ? AND owner_id = ? AND member_id = ?`),
			string(kind), owner, member)
	}
	if err != nil {
		return false, false, fmt.Errorf("relation: persist %s: %w", kind, err)
	}
	return in, true, nil
}

// PurgeOwner deletes the sets owned by owner, for all kinds when none are given.
func (s *Store) PurgeOwner(ctx context.Context, owner string, kinds ...Kind) error {
	return s.purge(ctx, "owner_id", owner, kinds)
}

// PurgeMember removes member from every set of the given kinds.
func (s *Store) PurgeMember(ctx context.Context, member string, kinds ...Kind) error {
	return s.purge(ctx, "member_id", member, kinds)
}

func (s *Store) purge(ctx context.Context, column, id string, kinds []Kind) error {
	query := `DELETE FROM relations WHERE ` + column + ` = ?`
	args := []any{id}
	if len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		var err error
		query, args, err = sqlx.In(query+` AND kind IN (?)`, id, names)
		if err != nil {
			return err
		}
	}

	ex := s.d.Executor(ctx)
	if _, err := ex.ExecContext(ctx, ex.Rebind(query), args...); err != nil {
		return fmt.Errorf("relation: purge %s %s: %w", column, id, err)
	}
	return nil
}

// PurgeOwners deletes the kind sets of several owners at once, e.g. the
// likes of every post of a deleted user.
func (s *Store) PurgeOwners(ctx context.Context, kind Kind, owners ...string) error {
	return s.purgeIn(ctx, "owner_id", kind, owners)
}

// PurgeMembers removes several members from every kind set, e.g. a deleted
// post from all bookmark sets.
func (s *Store) PurgeMembers(ctx context.Context, kind Kind, members ...string) error {
	return s.purgeIn(ctx, "member_id", kind, members)
}

func (s *Store) purgeIn(ctx context.Context, column string, kind Kind, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM relations WHERE kind = ? AND `+column+` IN (?)`, string(kind), ids)
	if err != nil {
		return err
	}

	ex := s.d.Executor(ctx)
	if _, err := ex.ExecContext(ctx, ex.Rebind(query), args...); err != nil {
		return fmt.Errorf("relation: purge %s by %s: %w", kind, column, err)
	}
	return nil
}
