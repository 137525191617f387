package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/socialhub/biz/story"
	"github.com/ncobase/socialhub/biz/story/data/repository"
	"github.com/ncobase/socialhub/biz/story/service"
	"github.com/ncobase/socialhub/biz/story/structs"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/moduletest"
	"github.com/ncobase/socialhub/oss"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*moduletest.Env, *service.Service) {
	t.Helper()
	env := moduletest.New(t)
	env.Start(t)
	return env, moduletest.Service[*service.Service](t, env, story.ServiceKey)
}

func create(t *testing.T, svc *service.Service, userID, caption string) *structs.Story {
	t.Helper()
	s, err := svc.Create(context.Background(), userID, caption, moduletest.Upload("s.png", moduletest.PNG()))
	require.NoError(t, err)
	return s
}

func expire(t *testing.T, env *moduletest.Env, storyID string) {
	t.Helper()
	_, err := env.DB().Exec(env.DB().Rebind(`UPDATE stories SET expiry_date = ? WHERE id = ?`),
		time.Now().UTC().Add(-time.Minute), storyID)
	require.NoError(t, err)
}

func TestCreateSetsExpiry(t *testing.T) {
	env, svc := setup(t)
	alice := env.CreateUser(t, "alice", "alice@example.com")

	s := create(t, svc, alice.ID, "beach")
	assert.Equal(t, structs.Lifetime, s.ExpiryDate.Sub(s.CreatedAt))
	assert.True(t, env.Exists(t, s.Image))

	_, err := svc.Create(context.Background(), alice.ID, "none", nil)
	assert.ErrorIs(t, err, service.ErrImageRequired)
}

func TestViewIsRecordedOnce(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	s := create(t, svc, alice.ID, "once")

	for range 3 {
		basic, err := svc.View(ctx, bob.ID, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, basic.ID)
		assert.Equal(t, "once", basic.Caption)
	}

	info, err := svc.Info(ctx, alice.ID, s.ID)
	require.NoError(t, err)
	require.Len(t, info.UsersViewedStory, 1)
	assert.Equal(t, bob.ID, info.UsersViewedStory[0].ID)
	assert.Empty(t, info.UsersLikedStory)

	_, err = svc.View(ctx, bob.ID, "missing")
	assert.ErrorIs(t, err, service.ErrStoryNotFound)
}

func TestOwnerOnlyOperations(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	s := create(t, svc, alice.ID, "private")

	forbidden := func(err error) {
		t.Helper()
		require.Error(t, err)
		assert.Equal(t, ecode.KindForbidden, ecode.KindOf(err))
	}

	_, err := svc.ListByUser(ctx, bob.ID, alice.ID)
	forbidden(err)
	_, err = svc.Info(ctx, bob.ID, s.ID)
	forbidden(err)
	forbidden(svc.Update(ctx, bob.ID, s.ID, &structs.UpdateRequest{Caption: "mine now"}))
	forbidden(svc.Delete(ctx, bob.ID, s.ID))
	assert.True(t, env.Exists(t, s.Image))

	_, err = svc.ListByUser(ctx, bob.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	require.NoError(t, svc.Update(ctx, alice.ID, s.ID, &structs.UpdateRequest{Caption: "renamed"}))
	require.NoError(t, svc.Update(ctx, alice.ID, s.ID, &structs.UpdateRequest{}))
	stories, err := svc.ListByUser(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "renamed", stories[0].Caption)

	require.NoError(t, svc.Delete(ctx, alice.ID, s.ID))
	assert.False(t, env.Exists(t, s.Image))
	_, err = svc.View(ctx, bob.ID, s.ID)
	assert.ErrorIs(t, err, service.ErrStoryNotFound)
}

func TestLikeToggles(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	s := create(t, svc, alice.ID, "likeable")

	r, err := svc.Like(ctx, bob.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: true, Count: 1}, r)

	r, err = svc.Like(ctx, bob.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: false, Count: 0}, r)
}

func TestPurgeExpired(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")

	old := create(t, svc, alice.ID, "old")
	fresh := create(t, svc, alice.ID, "fresh")
	_, err := svc.View(ctx, bob.ID, old.ID)
	require.NoError(t, err)
	expire(t, env, old.ID)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, env.Exists(t, old.Image))
	assert.True(t, env.Exists(t, fresh.Image))

	stories, err := svc.ListByUser(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, fresh.ID, stories[0].ID)

	var views int
	require.NoError(t, env.DB().Get(&views, env.DB().Rebind(`SELECT COUNT(*) FROM relations WHERE owner_id = ?`), old.ID))
	assert.Zero(t, views)

	n, err = svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// stubbornStorage refuses to delete one key.
type stubbornStorage struct {
	*oss.FileSystem
	key string
}

func (s *stubbornStorage) Delete(ctx context.Context, key string) error {
	if key == s.key {
		return errors.New("storage unavailable")
	}
	return s.FileSystem.Delete(ctx, key)
}

func TestPurgeExpiredKeepsStoryWhenAssetDeleteFails(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")

	stuck := create(t, svc, alice.ID, "stuck")
	gone := create(t, svc, alice.ID, "gone")
	expire(t, env, stuck.ID)
	expire(t, env, gone.ID)

	app := env.App
	users, err := userrepo.NewUserRepository(app.Data, app.Relations, app.Logger)
	require.NoError(t, err)
	storage := &stubbornStorage{FileSystem: env.Storage, key: oss.KeyFromURL(stuck.Image)}
	purger := service.New(app.Logger, app.Data, repository.NewStoryRepository(app.Data),
		users, app.Relations, media.NewUploader(storage), app.Publisher)

	n, err := purger.PurgeExpired(ctx)
	require.Error(t, err)
	assert.Equal(t, ecode.KindStorage, ecode.KindOf(err))
	assert.Equal(t, 1, n)

	assert.True(t, env.Exists(t, stuck.Image))
	assert.False(t, env.Exists(t, gone.Image))

	stories, err := svc.ListByUser(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, stuck.ID, stories[0].ID)
}
