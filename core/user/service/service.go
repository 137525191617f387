// Package service contains the identity, visibility and follow logic.
package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/crypto"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
)

var (
	ErrUserNotFound      = ecode.NotFound("User not found")
	ErrFollowSelf        = ecode.Validation("You cannot follow yourself")
	ErrInvalidStatus     = ecode.Validation("invalid input")
	ErrBioTooLong        = ecode.Validation("Bio must be at most 500 characters")
	ErrUnsupportedAvatar = ecode.Validation("Avatar should be an image or video")
)

type Service struct {
	d          *data.Data
	repo       repository.UserRepository
	relations  *relation.Store
	media      *media.Uploader
	publisher  messaging.Publisher
	logger     *logger.Logger
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost sets the work factor used when passwords change.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func New(
	logger *logger.Logger,
	d *data.Data,
	repo repository.UserRepository,
	relations *relation.Store,
	uploader *media.Uploader,
	publisher messaging.Publisher,
	opts ...Option,
) *Service {
	s := &Service{
		d:          d,
		repo:       repo,
		relations:  relations,
		media:      uploader,
		publisher:  publisher,
		logger:     logger,
		bcryptCost: crypto.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = messaging.Noop{}
	}
	return s
}

// Get returns the user with its sets.
func (s *Service) Get(ctx context.Context, id string) (*structs.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(ctx, err, "Failed to get user", id)
	}
	return u, nil
}

// ResolveProfile decides what viewer may see of target. A private target
// is shown in full only to itself and to its followers.
func ResolveProfile(viewer, target *structs.User, content *structs.Content) structs.ProfileView {
	if target.IsPrivate() && (viewer == nil || viewer.ID != target.ID) {
		if viewer == nil || !relation.Contains(viewer.Following, target.ID) {
			return target.Limited()
		}
	}
	return structs.NewProfile(target, content)
}

// PrivateProfile returns the profile of targetID as seen by viewerID.
func (s *Service) PrivateProfile(ctx context.Context, viewerID, targetID string) (structs.ProfileView, error) {
	viewer, err := s.Get(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	view := ResolveProfile(viewer, target, nil)
	if p, ok := view.(*structs.Profile); ok {
		content, err := s.repo.ContentOf(ctx, target.ID)
		if err != nil {
			s.logger.Error(ctx, "Failed to load user content", "error", err, "user_id", target.ID)
			return nil, ecode.Internal("failed to load profile", err)
		}
		return structs.NewProfile(p.User, content), nil
	}
	return view, nil
}

// PublicProfile returns the full profile of id regardless of its status.
func (s *Service) PublicProfile(ctx context.Context, id string) (*structs.Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.repo.ContentOf(ctx, u.ID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load user content", "error", err, "user_id", id)
		return nil, ecode.Internal("failed to load profile", err)
	}
	return structs.NewProfile(u, content), nil
}

// List returns every user as a limited profile, with the total count.
func (s *Service) List(ctx context.Context) ([]*structs.Limited, int, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to list users", "error", err)
		return nil, 0, ecode.Internal("failed to list users", err)
	}
	out := make([]*structs.Limited, len(users))
	for i, u := range users {
		out[i] = u.Limited()
	}
	return out, len(out), nil
}

// Follow toggles actorID following targetID and reports whether actorID
// follows targetID afterwards. Both sides change in one transaction after
// both rows are locked; when the sides disagree the following side wins.
func (s *Service) Follow(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, ErrFollowSelf
	}

	var following bool
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, _, err := s.repo.LockPair(ctx, actorID, targetID); err != nil {
			return err
		}

		var err error
		following, err = s.relations.Toggle(ctx, relation.UserFollowing, actorID, targetID)
		if err != nil {
			return err
		}

		mode := relation.ModeRemove
		if following {
			mode = relation.ModeAdd
		}
		_, _, err = s.relations.Apply(ctx, relation.UserFollowers, targetID, actorID, mode)
		return err
	})
	if err != nil {
		return false, s.notFound(ctx, err, "Failed to follow user", targetID)
	}

	s.repo.Invalidate(ctx, actorID, targetID)
	messaging.Emit(ctx, s.publisher, messaging.NewEvent(
		messaging.Toggled(following, messaging.UserFollowed, messaging.UserUnfollowed), actorID, targetID))

	s.logger.Info(ctx, "Follow toggled", "user_id", actorID, "target_id", targetID, "following", following)
	return following, nil
}

// Update applies the non-empty fields of req to actorID. A new avatar is
// stored first; the previous stored avatar is removed once the row is saved.
func (s *Service) Update(ctx context.Context, actorID string, req *structs.UpdateRequest, avatar *media.File) error {
	if req.Status != "" && req.Status != structs.StatusPrivate && req.Status != structs.StatusPublic {
		return ErrInvalidStatus
	}
	if utf8.RuneCountInString(req.Bio) > structs.MaxBioLength {
		return ErrBioTooLong
	}

	var hash string
	if req.Password != "" {
		var err error
		if hash, err = crypto.HashPassword(ctx, req.Password, s.bcryptCost); err != nil {
			return ecode.Internal("failed to hash password", err)
		}
	}

	newAvatar := strings.TrimSpace(req.Avatar)
	if avatar != nil {
		stored, err := s.media.Store(ctx, "avatar "+actorID, avatar)
		if err != nil {
			if media.IsUnsupported(err) {
				return ErrUnsupportedAvatar
			}
			s.logger.Error(ctx, "Failed to store avatar", "error", err, "user_id", actorID)
			return err
		}
		newAvatar = stored.URL
	}

	var oldAvatar string
	err := s.d.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.repo.LockByID(ctx, actorID)
		if err != nil {
			return err
		}
		if req.UserName != "" {
			u.UserName = req.UserName
		}
		if req.Bio != "" {
			u.Bio = req.Bio
		}
		if req.Status != "" {
			u.Status = req.Status
		}
		if newAvatar != "" && newAvatar != u.Avatar {
			oldAvatar = u.Avatar
			u.Avatar = newAvatar
		}
		u.Password = hash
		u.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		if avatar != nil {
			_ = s.media.Remove(ctx, newAvatar)
		}
		return s.notFound(ctx, err, "Failed to update user", actorID)
	}

	if oldAvatar != "" {
		if err := s.media.Remove(ctx, oldAvatar); err != nil {
			s.logger.Warn(ctx, "Failed to remove previous avatar", "error", err, "user_id", actorID)
		}
	}

	s.logger.Info(ctx, "User updated", "user_id", actorID)
	return nil
}

// Delete removes actorID together with every asset, content and set
// reference. Assets go first; a storage failure aborts before any row is
// touched.
func (s *Service) Delete(ctx context.Context, actorID string) error {
	u, err := s.Get(ctx, actorID)
	if err != nil {
		return err
	}

	assets, err := s.repo.AssetsOf(ctx, actorID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load user assets", "error", err, "user_id", actorID)
		return ecode.Internal("failed to delete user", err)
	}
	if err := s.media.Remove(ctx, append([]string{u.Avatar}, assets...)...); err != nil {
		s.logger.Error(ctx, "Failed to delete user assets", "error", err, "user_id", actorID)
		return err
	}

	err = s.d.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockByID(ctx, actorID); err != nil {
			return err
		}
		ids, err := s.repo.ContentIDs(ctx, actorID)
		if err != nil {
			return err
		}
		if err := s.purgeRelations(ctx, actorID, ids); err != nil {
			return err
		}
		return s.repo.Delete(ctx, actorID)
	})
	if err != nil {
		return s.notFound(ctx, err, "Failed to delete user", actorID)
	}

	s.repo.Invalidate(ctx, append(append([]string{}, u.Followers...), u.Following...)...)
	s.logger.Info(ctx, "User deleted", "user_id", actorID)
	return nil
}

func (s *Service) purgeRelations(ctx context.Context, userID string, ids *structs.ContentIDs) error {
	steps := []func() error{
		func() error { return s.relations.PurgeOwner(ctx, userID) },
		func() error {
			return s.relations.PurgeMember(ctx, userID,
				relation.UserFollowers, relation.UserFollowing,
				relation.PostLikes, relation.PostShares, relation.CommentLikes,
				relation.StoryLikes, relation.StoryViews)
		},
		func() error { return s.relations.PurgeOwners(ctx, relation.PostLikes, ids.Posts...) },
		func() error { return s.relations.PurgeOwners(ctx, relation.PostShares, ids.Posts...) },
		func() error { return s.relations.PurgeMembers(ctx, relation.UserBookmarks, ids.Posts...) },
		func() error { return s.relations.PurgeOwners(ctx, relation.CommentLikes, ids.Comments...) },
		func() error { return s.relations.PurgeOwners(ctx, relation.StoryLikes, ids.Stories...) },
		func() error { return s.relations.PurgeOwners(ctx, relation.StoryViews, ids.Stories...) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Bookmarks returns the posts userID bookmarked, oldest bookmark first.
func (s *Service) Bookmarks(ctx context.Context, userID string) ([]structs.PostSummary, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.PostsByIDs(ctx, u.Bookmarks...)
	if err != nil {
		s.logger.Error(ctx, "Failed to load bookmarks", "error", err, "user_id", userID)
		return nil, ecode.Internal("failed to load bookmarks", err)
	}
	return posts, nil
}

// Repository exposes the user store to the auth module.
func (s *Service) Repository() repository.UserRepository {
	return s.repo
}

// notFound maps a missing user to ErrUserNotFound, keeps classified errors
// and wraps the rest as internal.
func (s *Service) notFound(ctx context.Context, err error, msg, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	var e *ecode.Error
	if errors.As(err, &e) {
		return err
	}
	s.logger.Error(ctx, msg, "error", err, "user_id", id)
	return ecode.Internal(strings.ToLower(msg[:1])+msg[1:], err)
}
