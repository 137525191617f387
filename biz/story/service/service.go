// Package service contains story business logic.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/socialhub/biz/story/data/repository"
	"github.com/ncobase/socialhub/biz/story/structs"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/access"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
	"github.com/ncobase/socialhub/nanoid"
)

var (
	ErrStoryNotFound    = ecode.NotFound("story not found")
	ErrUserNotFound     = ecode.NotFound("User not found")
	ErrImageRequired    = ecode.Validation("Story should have an image or video")
	ErrUnsupportedMedia = ecode.Validation("Story should have an image or video")
)

const (
	msgListDenied   = "You are not authorized to view stories of this user"
	msgInfoDenied   = "You are not authorized to view story Info"
	msgUpdateDenied = "You are not authorized to update this story"
	msgDeleteDenied = "You are not authorized to delete this story"
)

// purgeBatch bounds how many expired stories one PurgeExpired pass loads.
const purgeBatch = 100

type Service struct {
	d         *data.Data
	repo      repository.StoryRepository
	users     userrepo.UserRepository
	relations *relation.Store
	media     *media.Uploader
	publisher messaging.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

func New(
	logger *logger.Logger,
	d *data.Data,
	repo repository.StoryRepository,
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
		now:       time.Now,
	}
}

// Create stores the media and then a story expiring in 24 hours.
func (s *Service) Create(ctx context.Context, actorID, caption string, image *media.File) (*structs.Story, error) {
	if image == nil || image.Size == 0 {
		return nil, ErrImageRequired
	}

	stored, err := s.media.Store(ctx, "story", image)
	if err != nil {
		if media.IsUnsupported(err) {
			return nil, ErrUnsupportedMedia
		}
		s.logger.Error(ctx, "Failed to store story media", "error", err, "user_id", actorID)
		return nil, err
	}

	story := structs.NewStory(nanoid.PrimaryKey(), actorID, stored.URL, stored.MIME, caption)
	if err := s.repo.Create(ctx, story); err != nil {
		s.logger.Error(ctx, "Failed to create story", "error", err, "user_id", actorID)
		if rmErr := s.media.Remove(ctx, stored.URL); rmErr != nil {
			s.logger.Warn(ctx, "Failed to remove orphaned story media", "error", rmErr, "url", stored.URL)
		}
		return nil, ecode.Internal("failed to create story", err)
	}

	s.logger.Info(ctx, "Story created", "story_id", story.ID, "user_id", actorID)
	return story, nil
}

// ListByUser returns the stories of userID. Only the owner may list them.
func (s *Service) ListByUser(ctx context.Context, actorID, userID string) ([]*structs.Story, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to list stories")
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	if err := access.RequireOwner(actorID, userID, msgListDenied); err != nil {
		return nil, err
	}

	stories, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to list stories")
	}
	if err := s.hydrate(ctx, stories...); err != nil {
		return nil, err
	}
	return stories, nil
}

// View records actorID as a viewer, once, and returns the story.
func (s *Service) View(ctx context.Context, actorID, storyID string) (*structs.Basic, error) {
	var story *structs.Story
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if story, err = s.repo.LockByID(ctx, storyID); err != nil {
			return err
		}
		if err := s.requireUser(ctx, actorID); err != nil {
			return err
		}
		_, err = s.relations.AddIfAbsent(ctx, relation.StoryViews, storyID, actorID)
		return err
	})
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to view story")
	}
	return story.Basic(), nil
}

// Info lists who liked and viewed a story. Only the owner may see it.
func (s *Service) Info(ctx context.Context, actorID, storyID string) (*structs.Info, error) {
	story, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to load story")
	}
	if err := access.RequireOwner(actorID, story.UserID, msgInfoDenied); err != nil {
		return nil, err
	}

	likes, err := s.relations.Members(ctx, relation.StoryLikes, storyID)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to load story")
	}
	views, err := s.relations.Members(ctx, relation.StoryViews, storyID)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to load story")
	}

	liked, err := s.users.Basics(ctx, likes...)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to load story")
	}
	viewed, err := s.users.Basics(ctx, views...)
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to load story")
	}
	return &structs.Info{UsersLikedStory: liked, UsersViewedStory: viewed}, nil
}

// Update changes the caption. Only the owner may update.
func (s *Service) Update(ctx context.Context, actorID, storyID string, req *structs.UpdateRequest) error {
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		story, err := s.repo.LockByID(ctx, storyID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actorID, story.UserID, msgUpdateDenied); err != nil {
			return err
		}
		if req.Caption != "" {
			story.Caption = req.Caption
		}
		story.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, story)
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to update story")
	}

	s.logger.Info(ctx, "Story updated", "story_id", storyID, "user_id", actorID)
	return nil
}

// Delete removes the asset and then the story. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, actorID, storyID string) error {
	story, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return s.mapErr(ctx, err, "failed to delete story")
	}
	if err := access.RequireOwner(actorID, story.UserID, msgDeleteDenied); err != nil {
		return err
	}
	if err := s.remove(ctx, story); err != nil {
		return err
	}

	s.logger.Info(ctx, "Story deleted", "story_id", storyID, "user_id", actorID)
	return nil
}

// Like toggles actorID in the likes of a story.
func (s *Service) Like(ctx context.Context, actorID, storyID string) (*structs.LikeResult, error) {
	result := &structs.LikeResult{}
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockByID(ctx, storyID); err != nil {
			return err
		}
		if err := s.requireUser(ctx, actorID); err != nil {
			return err
		}
		liked, err := s.relations.Toggle(ctx, relation.StoryLikes, storyID, actorID)
		if err != nil {
			return err
		}
		count, err := s.relations.Count(ctx, relation.StoryLikes, storyID)
		if err != nil {
			return err
		}
		result.Liked, result.Count = liked, count
		return nil
	})
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to like story")
	}

	messaging.Emit(ctx, s.publisher, messaging.NewEvent(
		messaging.Toggled(result.Liked, messaging.StoryLiked, messaging.StoryUnliked), actorID, storyID))
	return result, nil
}

// PurgeExpired deletes every story past its expiry, asset first. A story
// whose asset cannot be deleted is kept and reported; the others proceed.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	var (
		purged int
		errs   []error
		failed = map[string]bool{}
	)
	for {
		stories, err := s.repo.ListExpired(ctx, s.now(), purgeBatch+len(failed))
		if err != nil {
			return purged, s.mapErr(ctx, err, "failed to list expired stories")
		}

		progress := false
		for _, story := range stories {
			if failed[story.ID] {
				continue
			}
			if err := s.remove(ctx, story); err != nil {
				failed[story.ID] = true
				errs = append(errs, err)
				continue
			}
			purged++
			progress = true
		}
		if !progress {
			break
		}
	}

	s.logger.Info(ctx, "Expired stories purged", "purged", purged, "failed", len(failed))
	return purged, errors.Join(errs...)
}

// remove deletes the asset, then the story row and its sets.
func (s *Service) remove(ctx context.Context, story *structs.Story) error {
	if err := s.media.Remove(ctx, story.Image); err != nil {
		s.logger.Error(ctx, "Failed to delete story media", "error", err, "story_id", story.ID)
		return err
	}

	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if err := s.relations.PurgeOwner(ctx, story.ID, relation.StoryLikes, relation.StoryViews); err != nil {
			return err
		}
		return s.repo.Delete(ctx, story.ID)
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to delete story")
	}
	return nil
}

func (s *Service) hydrate(ctx context.Context, stories ...*structs.Story) error {
	ids := make([]string, len(stories))
	for i, st := range stories {
		ids[i] = st.ID
	}
	likes, err := s.relations.MembersOf(ctx, relation.StoryLikes, ids...)
	if err != nil {
		return s.mapErr(ctx, err, "failed to load stories")
	}
	views, err := s.relations.MembersOf(ctx, relation.StoryViews, ids...)
	if err != nil {
		return s.mapErr(ctx, err, "failed to load stories")
	}
	for _, st := range stories {
		st.Likes = likes[st.ID]
		st.Views = views[st.ID]
	}
	return nil
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

func (s *Service) mapErr(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrStoryNotFound
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
