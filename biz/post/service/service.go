// Package service contains post business logic.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/socialhub/biz/post/data/repository"
	"github.com/ncobase/socialhub/biz/post/structs"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	userstructs "github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/access"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
	"github.com/ncobase/socialhub/nanoid"
	"github.com/ncobase/socialhub/paging"
)

var (
	ErrPostNotFound     = ecode.NotFound("Post not found")
	ErrUserNotFound     = ecode.NotFound("User not found")
	ErrImageRequired    = ecode.Validation("Post should have an image")
	ErrUnsupportedMedia = ecode.Validation("Post should have an image or video")
)

const (
	msgUpdateDenied = "You are not authorized to update this post"
	msgDeleteDenied = "You are not authorized to delete this post"
)

type Service struct {
	d         *data.Data
	repo      repository.PostRepository
	users     userrepo.UserRepository
	relations *relation.Store
	media     *media.Uploader
	publisher messaging.Publisher
	logger    *logger.Logger
}

func New(
	logger *logger.Logger,
	d *data.Data,
	repo repository.PostRepository,
	users userrepo.UserRepository,
	relations *relation.Store,
	uploader *media.Uploader,
	publisher messaging.Publisher,
) *Service {
	if publisher == nil {
		publisher = messaging.Noop{}
	}
	return &Service{
		d:         d,
		repo:      repo,
		users:     users,
		relations: relations,
		media:     uploader,
		publisher: publisher,
		logger:    logger,
	}
}

// Create stores the image and then the post. The stored image is removed
// again if the post cannot be saved.
func (s *Service) Create(ctx context.Context, actorID, description string, image *media.File) (*structs.Post, error) {
	if image == nil || image.Size == 0 {
		return nil, ErrImageRequired
	}

	stored, err := s.media.Store(ctx, "post", image)
	if err != nil {
		if media.IsUnsupported(err) {
			return nil, ErrUnsupportedMedia
		}
		s.logger.Error(ctx, "Failed to store post image", "error", err, "user_id", actorID)
		return nil, err
	}

	post := structs.NewPost(nanoid.PrimaryKey(), actorID, stored.URL, stored.MIME, description)
	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error(ctx, "Failed to create post", "error", err, "user_id", actorID)
		if rmErr := s.media.Remove(ctx, stored.URL); rmErr != nil {
			s.logger.Warn(ctx, "Failed to remove orphaned post image", "error", rmErr, "url", stored.URL)
		}
		return nil, ecode.Internal("failed to create post", err)
	}

	if err := s.hydrate(ctx, false, post); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Post created", "post_id", post.ID, "user_id", actorID)
	return post, nil
}

// List returns one page of posts matching p.Q, most liked first.
func (s *Service) List(ctx context.Context, p paging.Params) (*paging.Result[*structs.Post], error) {
	p = p.Normalize()
	posts, total, err := s.repo.Search(ctx, p)
	if err != nil {
		s.logger.Error(ctx, "Failed to list posts", "error", err)
		return nil, ecode.Internal("failed to list posts", err)
	}
	if err := s.hydrate(ctx, true, posts...); err != nil {
		return nil, err
	}
	return paging.NewResult(p, total, posts), nil
}

// ListByUser returns the posts of userID, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*structs.Post, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list posts")
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	posts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list posts")
	}
	if err := s.hydrate(ctx, true, posts...); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns a post with its comments.
func (s *Service) Get(ctx context.Context, id string) (*structs.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, true, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Likes lists the users who liked a post.
func (s *Service) Likes(ctx context.Context, id string) (*structs.Likes, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	ids, err := s.relations.Members(ctx, relation.PostLikes, id)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load likes")
	}
	users, err := s.users.Basics(ctx, ids...)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load likes")
	}
	return &structs.Likes{Users: users, Count: len(users)}, nil
}

// Update changes the description. Only the owner may update.
func (s *Service) Update(ctx context.Context, actorID, postID string, req *structs.UpdateRequest) error {
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		post, err := s.repo.LockByID(ctx, postID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actorID, post.UserID, msgUpdateDenied); err != nil {
			return err
		}
		if req.Description != "" {
			post.Description = req.Description
		}
		post.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, post)
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to update post")
	}

	s.logger.Info(ctx, "Post updated", "post_id", postID, "user_id", actorID)
	return nil
}

// Delete removes the asset, then the post with its comments and every set
// referencing them. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, actorID, postID string) error {
	post, err := s.find(ctx, postID)
	if err != nil {
		return err
	}
	if err := access.RequireOwner(actorID, post.UserID, msgDeleteDenied); err != nil {
		return err
	}

	if err := s.media.Remove(ctx, post.Image); err != nil {
		s.logger.Error(ctx, "Failed to delete post image", "error", err, "post_id", postID)
		return err
	}

	err = s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockByID(ctx, postID); err != nil {
			return err
		}
		commentIDs, err := s.repo.CommentIDs(ctx, postID)
		if err != nil {
			return err
		}
		if err := s.relations.PurgeOwner(ctx, postID, relation.PostLikes, relation.PostShares); err != nil {
			return err
		}
		if err := s.relations.PurgeMember(ctx, postID, relation.UserBookmarks); err != nil {
			return err
		}
		if err := s.relations.PurgeOwners(ctx, relation.CommentLikes, commentIDs...); err != nil {
			return err
		}
		return s.repo.Delete(ctx, postID)
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to delete post")
	}

	s.logger.Info(ctx, "Post deleted", "post_id", postID, "user_id", actorID)
	return nil
}

// Like toggles actorID in the likes of a post.
func (s *Service) Like(ctx context.Context, actorID, postID string) (*structs.LikeResult, error) {
	result := &structs.LikeResult{}
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockByID(ctx, postID); err != nil {
			return err
		}
		if err := s.requireUser(ctx, actorID); err != nil {
			return err
		}
		liked, err := s.relations.Toggle(ctx, relation.PostLikes, postID, actorID)
		if err != nil {
			return err
		}
		count, err := s.relations.Count(ctx, relation.PostLikes, postID)
		if err != nil {
			return err
		}
		result.Liked, result.Count = liked, count
		return nil
	})
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to like post")
	}

	messaging.Emit(ctx, s.publisher, messaging.NewEvent(
		messaging.Toggled(result.Liked, messaging.PostLiked, messaging.PostUnliked), actorID, postID))
	return result, nil
}

// Bookmark toggles postID in the bookmarks of actorID and reports whether
// it is bookmarked afterwards.
func (s *Service) Bookmark(ctx context.Context, actorID, postID string) (bool, error) {
	var bookmarked bool
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockByID(ctx, postID); err != nil {
			return err
		}
		if _, err := s.users.LockByID(ctx, actorID); err != nil {
			return err
		}
		var err error
		bookmarked, err = s.relations.Toggle(ctx, relation.UserBookmarks, actorID, postID)
		return err
	})
	if err != nil {
		return false, s.mapErr(ctx, err, "failed to bookmark post")
	}

	s.users.Invalidate(ctx, actorID)
	messaging.Emit(ctx, s.publisher, messaging.NewEvent(
		messaging.Toggled(bookmarked, messaging.PostBookmarked, messaging.PostUnbookmarked), actorID, postID))
	return bookmarked, nil
}

// hydrate loads authors and sets, and comments when withComments is set.
func (s *Service) hydrate(ctx context.Context, withComments bool, posts ...*structs.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := s.relations.MembersOf(ctx, relation.PostLikes, ids...)
	if err != nil {
		return s.internal(ctx, err, "failed to load posts")
	}
	shares, err := s.relations.MembersOf(ctx, relation.PostShares, ids...)
	if err != nil {
		return s.internal(ctx, err, "failed to load posts")
	}

	comments := map[string][]*structs.Comment{}
	var commentIDs []string
	if withComments {
		if comments, err = s.repo.Comments(ctx, ids...); err != nil {
			return s.internal(ctx, err, "failed to load comments")
		}
		for _, list := range comments {
			for _, c := range list {
				commentIDs = append(commentIDs, c.ID)
			}
		}
	}
	commentLikes, err := s.relations.MembersOf(ctx, relation.CommentLikes, commentIDs...)
	if err != nil {
		return s.internal(ctx, err, "failed to load comments")
	}

	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.UserID)
		for _, c := range comments[p.ID] {
			authorIDs = append(authorIDs, c.UserID)
		}
	}
	authors, err := s.authors(ctx, authorIDs)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.User = authors[p.UserID]
		p.Likes = likes[p.ID]
		p.Shares = shares[p.ID]
		p.Comments = comments[p.ID]
		for _, c := range p.Comments {
			c.User = authors[c.UserID]
			c.Likes = commentLikes[c.ID]
		}
		p.EnsureSets()
	}
	return nil
}

func (s *Service) authors(ctx context.Context, ids []string) (map[string]*userstructs.Basic, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	basics, err := s.users.Basics(ctx, unique...)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load authors")
	}
	out := make(map[string]*userstructs.Basic, len(basics))
	for _, b := range basics {
		out[b.ID] = b
	}
	return out, nil
}

func (s *Service) find(ctx context.Context, id string) (*structs.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to get post")
	}
	return post, nil
}

func (s *Service) requireUser(ctx context.Context, id string) error {
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// mapErr keeps classified errors, maps missing rows and wraps the rest.
func (s *Service) mapErr(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrPostNotFound
	case errors.Is(err, userrepo.ErrNotFound):
		return ErrUserNotFound
	}
	var e *ecode.Error
	if errors.As(err, &e) {
		return err
	}
	return s.internal(ctx, err, msg)
}

func (s *Service) internal(ctx context.Context, err error, msg string) error {
	s.logger.Error(ctx, msg, "error", err)
	return ecode.Internal(msg, err)
}
