package service_test

import (
	"context"
	"testing"

	"github.com/ncobase/socialhub/biz/comment"
	commentservice "github.com/ncobase/socialhub/biz/comment/service"
	"github.com/ncobase/socialhub/biz/post"
	"github.com/ncobase/socialhub/biz/post/service"
	"github.com/ncobase/socialhub/biz/post/structs"
	"github.com/ncobase/socialhub/core/user"
	userservice "github.com/ncobase/socialhub/core/user/service"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/moduletest"
	"github.com/ncobase/socialhub/paging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*moduletest.Env, *service.Service) {
	t.Helper()
	env := moduletest.New(t)
	env.Start(t)
	return env, moduletest.Service[*service.Service](t, env, post.ServiceKey)
}

func create(t *testing.T, svc *service.Service, userID, description string) *structs.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), userID, description, moduletest.Upload("p.png", moduletest.PNG()))
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")

	p := create(t, svc, alice.ID, "harbor")
	assert.Equal(t, "image/png", p.MediaType)
	assert.True(t, env.Exists(t, p.Image))

	_, err := svc.Create(ctx, alice.ID, "nothing", nil)
	assert.ErrorIs(t, err, service.ErrImageRequired)

	_, err = svc.Create(ctx, alice.ID, "text", moduletest.Upload("a.txt", []byte("hello world")))
	assert.ErrorIs(t, err, service.ErrUnsupportedMedia)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, alice.ID, got.User.ID)
	assert.Empty(t, got.Likes)
	assert.Empty(t, got.Comments)
}

func TestNonOwnerCannotChangePost(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	p := create(t, svc, alice.ID, "original")

	err := svc.Update(ctx, bob.ID, p.ID, &structs.UpdateRequest{Description: "changed"})
	require.Error(t, err)
	assert.Equal(t, ecode.KindForbidden, ecode.KindOf(err))

	err = svc.Delete(ctx, bob.ID, p.ID)
	require.Error(t, err)
	assert.Equal(t, ecode.KindForbidden, ecode.KindOf(err))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Description)
	assert.True(t, env.Exists(t, p.Image))

	require.NoError(t, svc.Update(ctx, alice.ID, p.ID, &structs.UpdateRequest{Description: "changed"}))
	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Description)
}

func TestDeleteRemovesAssetCommentsAndSets(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	comments := moduletest.Service[*commentservice.Service](t, env, comment.ServiceKey)
	users := moduletest.Service[*userservice.Service](t, env, user.ServiceKey)

	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	p := create(t, svc, alice.ID, "doomed")

	c, err := comments.Create(ctx, bob.ID, p.ID, "first")
	require.NoError(t, err)
	_, err = comments.Like(ctx, alice.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.Like(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	bookmarked, err := svc.Bookmark(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	require.NoError(t, svc.Delete(ctx, alice.ID, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
	assert.False(t, env.Exists(t, p.Image))

	_, err = comments.ListByPost(ctx, p.ID)
	assert.Error(t, err)

	b, err := users.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, b.Bookmarks)

	var n int
	require.NoError(t, env.DB().Get(&n, `SELECT COUNT(*) FROM relations`))
	assert.Zero(t, n)
}

func TestLikeToggles(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	p := create(t, svc, alice.ID, "likeable")

	r, err := svc.Like(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: true, Count: 1}, r)

	r, err = svc.Like(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: true, Count: 2}, r)

	likes, err := svc.Likes(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes.Count)

	r, err = svc.Like(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: false, Count: 1}, r)

	_, err = svc.Like(ctx, bob.ID, "missing")
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestListOrdersByLikesAndFilters(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")

	quiet := create(t, svc, alice.ID, "Quiet lake")
	popular := create(t, svc, alice.ID, "Busy market")
	other := create(t, svc, alice.ID, "Lake at 100%")

	for _, u := range []string{alice.ID, bob.ID} {
		_, err := svc.Like(ctx, u, popular.ID)
		require.NoError(t, err)
	}
	_, err := svc.Like(ctx, bob.ID, other.ID)
	require.NoError(t, err)

	page, err := svc.List(ctx, paging.Params{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, []string{popular.ID, other.ID, quiet.ID},
		[]string{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID})

	page, err = svc.List(ctx, paging.Params{Q: "LAKE"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.List(ctx, paging.Params{Q: "100%"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, other.ID, page.Items[0].ID)

	page, err = svc.List(ctx, paging.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, quiet.ID, page.Items[0].ID)
}

func TestListByUser(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	alice := env.CreateUser(t, "alice", "alice@example.com")
	create(t, svc, alice.ID, "one")
	create(t, svc, alice.ID, "two")

	posts, err := svc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = svc.ListByUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
