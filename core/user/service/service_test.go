package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ncobase/socialhub/biz/comment"
	commentservice "github.com/ncobase/socialhub/biz/comment/service"
	"github.com/ncobase/socialhub/biz/post"
	postservice "github.com/ncobase/socialhub/biz/post/service"
	"github.com/ncobase/socialhub/biz/story"
	storyservice "github.com/ncobase/socialhub/biz/story/service"
	"github.com/ncobase/socialhub/core/user"
	"github.com/ncobase/socialhub/core/user/service"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/crypto"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/moduletest"
	"github.com/ncobase/socialhub/internal/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*moduletest.Env, *service.Service) {
	t.Helper()
	env := moduletest.New(t)
	env.Start(t)
	return env, moduletest.Service[*service.Service](t, env, user.ServiceKey)
}

func TestFollowIsSymmetric(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")

	following, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	a, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	b, err := svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, a.Following)
	assert.Equal(t, []string{alice.ID}, b.Followers)

	following, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	a, err = svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	b, err = svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
}

func TestFollowRepairsOneSidedEdge(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")

	// bob lists alice as follower although alice does not follow bob
	_, err := env.App.Relations.AddIfAbsent(ctx, relation.UserFollowers, bob.ID, alice.ID)
	require.NoError(t, err)

	following, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	b, err := svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, b.Followers)

	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	b, err = svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, b.Followers)
}

func TestFollowRejectsSelfAndUnknown(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")

	_, err := svc.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrFollowSelf)

	_, err = svc.Follow(ctx, alice.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	a, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, a.Following)
}

func TestResolveProfile(t *testing.T) {
	target := structs.NewUser("t", "target", "t@example.com", "hash", "")
	target.Status = structs.StatusPrivate
	stranger := structs.NewUser("s", "stranger", "s@example.com", "hash", "")
	follower := structs.NewUser("f", "follower", "f@example.com", "hash", "")
	follower.Following = []string{"t"}

	_, limited := service.ResolveProfile(stranger, target, nil).(*structs.Limited)
	assert.True(t, limited)

	_, full := service.ResolveProfile(follower, target, nil).(*structs.Profile)
	assert.True(t, full)

	_, full = service.ResolveProfile(target, target, nil).(*structs.Profile)
	assert.True(t, full)

	target.Status = structs.StatusPublic
	_, full = service.ResolveProfile(stranger, target, nil).(*structs.Profile)
	assert.True(t, full)
}

func TestPrivateProfileHidesContentFromStrangers(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	env.SetStatus(t, bob.ID, structs.StatusPrivate)

	view, err := svc.PrivateProfile(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	limited, ok := view.(*structs.Limited)
	require.True(t, ok)
	assert.Equal(t, bob.ID, limited.ID)

	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	view, err = svc.PrivateProfile(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	profile, ok := view.(*structs.Profile)
	require.True(t, ok)
	assert.NotNil(t, profile.Posts)

	public, err := svc.PublicProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, public.ID)
}

func TestUpdate(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")

	err := svc.Update(ctx, alice.ID, &structs.UpdateRequest{Status: "hidden"}, nil)
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	err = svc.Update(ctx, alice.ID, &structs.UpdateRequest{
		UserName: "alice2",
		Bio:      "hello",
		Status:   structs.StatusPrivate,
	}, nil)
	require.NoError(t, err)

	u, err := svc.Repository().FindByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.UserName)
	assert.Equal(t, "hello", u.Bio)
	assert.True(t, u.IsPrivate())
	assert.True(t, crypto.ComparePassword(u.Password, moduletest.Password), "empty password keeps the hash")

	require.NoError(t, svc.Update(ctx, alice.ID, &structs.UpdateRequest{Password: "n3w-password"}, nil))
	u, err = svc.Repository().FindByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.True(t, crypto.ComparePassword(u.Password, "n3w-password"))
}

func TestUpdateAvatarReplacesStoredFile(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")

	require.NoError(t, svc.Update(ctx, alice.ID, &structs.UpdateRequest{}, moduletest.Upload("a.png", moduletest.PNG())))
	first, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, structs.DefaultAvatar, first.Avatar)
	assert.True(t, env.Exists(t, first.Avatar))

	require.NoError(t, svc.Update(ctx, alice.ID, &structs.UpdateRequest{}, moduletest.Upload("b.png", moduletest.PNG())))
	second, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	assert.False(t, env.Exists(t, first.Avatar))
	assert.True(t, env.Exists(t, second.Avatar))

	err = svc.Update(ctx, alice.ID, &structs.UpdateRequest{}, moduletest.Upload("notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, service.ErrUnsupportedAvatar)
}

func TestDeleteCascades(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	posts := moduletest.Service[*postservice.Service](t, env, post.ServiceKey)
	comments := moduletest.Service[*commentservice.Service](t, env, comment.ServiceKey)
	stories := moduletest.Service[*storyservice.Service](t, env, story.ServiceKey)

	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")

	p, err := posts.Create(ctx, alice.ID, "sunset", moduletest.Upload("p.png", moduletest.PNG()))
	require.NoError(t, err)
	s, err := stories.Create(ctx, alice.ID, "today", moduletest.Upload("s.png", moduletest.PNG()))
	require.NoError(t, err)
	c, err := comments.Create(ctx, bob.ID, p.ID, "nice")
	require.NoError(t, err)

	_, err = posts.Like(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	_, err = posts.Bookmark(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	_, err = comments.Like(ctx, alice.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice.ID))

	_, err = svc.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	_, err = posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, postservice.ErrPostNotFound)
	assert.False(t, env.Exists(t, p.Image))
	assert.False(t, env.Exists(t, s.Image))

	b, err := svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, b.Followers)
	assert.Empty(t, b.Following)
	assert.Empty(t, b.Bookmarks)

	var n int
	require.NoError(t, env.DB().Get(&n, `SELECT COUNT(*) FROM relations`))
	assert.Zero(t, n)
	require.NoError(t, env.DB().Get(&n, `SELECT COUNT(*) FROM comments`))
	assert.Zero(t, n)
}

func TestDeleteUnknownUser(t *testing.T) {
	_, svc := setup(t)
	err := svc.Delete(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, service.ErrUserNotFound))

	var e *ecode.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ecode.KindNotFound, e.Kind)
}

func TestList(t *testing.T) {
	env, svc := setup(t)
	env.CreateUser(t, "alice", "alice@example.com")
	env.CreateUser(t, "bob", "bob@example.com")

	users, count, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, users, 2)
}
