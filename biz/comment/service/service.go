// Package service contains comment business logic.
package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ncobase/socialhub/biz/comment/data/repository"
	"github.com/ncobase/socialhub/biz/comment/structs"
	postrepo "github.com/ncobase/socialhub/biz/post/data/repository"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	userstructs "github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/access"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
	"github.com/ncobase/socialhub/nanoid"
)

var (
	ErrCommentNotFound = ecode.NotFound("Comment not found")
	ErrPostNotFound    = ecode.NotFound("Post not found")
	ErrUserNotFound    = ecode.NotFound("User not found")
	ErrEmptyContent    = ecode.Validation("Comment cannot be empty")
	ErrContentTooLong  = ecode.Validation("Comment too long")
)

const (
	msgUpdateDenied = "You are not allowed to update this comment"
	msgDeleteDenied = "You are not allowed to delete this comment"
)

type Service struct {
	d         *data.Data
	repo      repository.CommentRepository
	posts     postrepo.PostRepository
	users     userrepo.UserRepository
	relations *relation.Store
	publisher messaging.Publisher
	logger    *logger.Logger
}

func New(
	logger *logger.Logger,
	d *data.Data,
	repo repository.CommentRepository,
	posts postrepo.PostRepository,
	users userrepo.UserRepository,
	relations *relation.Store,
	publisher messaging.Publisher,
) *Service {
	if publisher == nil {
		publisher = messaging.Noop{}
	}
	return &Service{
		d:         d,
		repo:      repo,
		posts:     posts,
		users:     users,
		relations: relations,
		publisher: publisher,
		logger:    logger,
	}
}

// ValidateContent rejects empty comments and comments over
// structs.MaxContentLength characters.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > structs.MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Create adds a comment by actorID to postID.
func (s *Service) Create(ctx context.Context, actorID, postID, content string) (*structs.Comment, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	comment := structs.NewComment(nanoid.PrimaryKey(), postID, actorID, content)
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.posts.LockByID(ctx, postID); err != nil {
			return err
		}
		return s.repo.Create(ctx, comment)
	})
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to create comment")
	}

	messaging.Emit(ctx, s.publisher, messaging.NewEvent(messaging.CommentCreated, actorID, postID))
	s.logger.Info(ctx, "Comment created", "comment_id", comment.ID, "post_id", postID, "user_id", actorID)
	return comment, nil
}

// ListByPost returns the comments of a post, oldest first.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]*structs.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, s.mapErr(ctx, err, "failed to list comments")
	}
	comments, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to list comments")
	}
	if err := s.hydrate(ctx, comments...); err != nil {
		return nil, err
	}
	return comments, nil
}

// Update replaces the content. Only the author may update.
func (s *Service) Update(ctx context.Context, actorID, commentID, content string) error {
	if err := ValidateContent(content); err != nil {
		return err
	}

	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		comment, err := s.repo.LockByID(ctx, commentID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actorID, comment.UserID, msgUpdateDenied); err != nil {
			return err
		}
		comment.Content = content
		comment.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, comment)
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to update comment")
	}

	s.logger.Info(ctx, "Comment updated", "comment_id", commentID, "user_id", actorID)
	return nil
}

// Delete removes the comment and its likes. Only the author may delete.
func (s *Service) Delete(ctx context.Context, actorID, commentID string) error {
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		comment, err := s.repo.LockByID(ctx, commentID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actorID, comment.UserID, msgDeleteDenied); err != nil {
			return err
		}
		if err := s.relations.PurgeOwner(ctx, commentID, relation.CommentLikes); err != nil {
			return err
		}
		return s.repo.Delete(ctx, commentID)
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to delete comment")
	}

	s.logger.Info(ctx, "Comment deleted", "comment_id", commentID, "user_id", actorID)
	return nil
}

// Like toggles actorID in the likes of a comment.
func (s *Service) Like(ctx context.Context, actorID, commentID string) (*structs.LikeResult, error) {
	result := &structs.LikeResult{}
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockByID(ctx, commentID); err != nil {
			return err
		}
		exists, err := s.users.Exists(ctx, actorID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
		liked, err := s.relations.Toggle(ctx, relation.CommentLikes, commentID, actorID)
		if err != nil {
			return err
		}
		count, err := s.relations.Count(ctx, relation.CommentLikes, commentID)
		if err != nil {
			return err
		}
		result.Liked, result.Count = liked, count
		return nil
	})
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to like comment")
	}

	messaging.Emit(ctx, s.publisher, messaging.NewEvent(
		messaging.Toggled(result.Liked, messaging.CommentLiked, messaging.CommentUnliked), actorID, commentID))
	return result, nil
}

func (s *Service) hydrate(ctx context.Context, comments ...*structs.Comment) error {
	ids := make([]string, len(comments))
	authorIDs := make([]string, 0, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
		authorIDs = append(authorIDs, c.UserID)
	}

	likes, err := s.relations.MembersOf(ctx, relation.CommentLikes, ids...)
	if err != nil {
		return s.mapErr(ctx, err, "failed to load comments")
	}
	basics, err := s.users.Basics(ctx, authorIDs...)
	if err != nil {
		return s.mapErr(ctx, err, "failed to load comments")
	}
	authors := make(map[string]*userstructs.Basic, len(basics))
	for _, b := range basics {
		authors[b.ID] = b
	}
	for _, c := range comments {
		c.Likes = likes[c.ID]
		c.User = authors[c.UserID]
	}
	return nil
}

func (s *Service) mapErr(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrCommentNotFound
	case errors.Is(err, postrepo.ErrNotFound):
		return ErrPostNotFound
	case errors.Is(err, userrepo.ErrNotFound):
		return ErrUserNotFound
	}
	var e *ecode.Error
	if errors.As(err, &e) {
		return err
	}
	s.logger.Error(ctx, msg, "error", err)
	return ecode.Internal(msg, err)
}
