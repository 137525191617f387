package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ncobase/socialhub/biz/comment"
	"github.com/ncobase/socialhub/biz/comment/service"
	"github.com/ncobase/socialhub/biz/comment/structs"
	"github.com/ncobase/socialhub/biz/post"
	postservice "github.com/ncobase/socialhub/biz/post/service"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/moduletest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", service.ErrEmptyContent},
		{"whitespace", " \t\n ", service.ErrEmptyContent},
		{"single char", "a", nil},
		{"at limit", strings.Repeat("a", structs.MaxContentLength), nil},
		{"over limit", strings.Repeat("a", structs.MaxContentLength+1), service.ErrContentTooLong},
		{"multibyte at limit", strings.Repeat("é", structs.MaxContentLength), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateContent(tt.content)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type fixture struct {
	env      *moduletest.Env
	svc      *service.Service
	postID   string
	authorID string
	otherID  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	env := moduletest.New(t)
	env.Start(t)
	posts := moduletest.Service[*postservice.Service](t, env, post.ServiceKey)

	author := env.CreateUser(t, "alice", "alice@example.com")
	other := env.CreateUser(t, "bob", "bob@example.com")
	p, err := posts.Create(context.Background(), author.ID, "sunset", moduletest.Upload("p.png", moduletest.PNG()))
	require.NoError(t, err)

	return &fixture{
		env:      env,
		svc:      moduletest.Service[*service.Service](t, env, comment.ServiceKey),
		postID:   p.ID,
		authorID: author.ID,
		otherID:  other.ID,
	}
}

func TestCreateAndList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.otherID, f.postID, "first")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.authorID, f.postID, "second")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.otherID, f.postID, "   ")
	assert.ErrorIs(t, err, service.ErrEmptyContent)

	_, err = f.svc.Create(ctx, f.otherID, "missing", "hello")
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	comments, err := f.svc.ListByPost(ctx, f.postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, "second", comments[1].Content)
	require.NotNil(t, comments[0].User)
	assert.Equal(t, "bob", comments[0].User.UserName)
	assert.Empty(t, comments[0].Likes)
}

func TestOnlyAuthorMayChangeComment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, f.otherID, f.postID, "mine")
	require.NoError(t, err)

	err = f.svc.Update(ctx, f.authorID, c.ID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, ecode.KindForbidden, ecode.KindOf(err))

	err = f.svc.Delete(ctx, f.authorID, c.ID)
	require.Error(t, err)
	assert.Equal(t, ecode.KindForbidden, ecode.KindOf(err))

	err = f.svc.Update(ctx, f.otherID, c.ID, strings.Repeat("x", structs.MaxContentLength+1))
	assert.ErrorIs(t, err, service.ErrContentTooLong)

	require.NoError(t, f.svc.Update(ctx, f.otherID, c.ID, "edited"))
	comments, err := f.svc.ListByPost(ctx, f.postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "edited", comments[0].Content)

	require.NoError(t, f.svc.Delete(ctx, f.otherID, c.ID))
	comments, err = f.svc.ListByPost(ctx, f.postID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = f.svc.Delete(ctx, f.otherID, c.ID)
	assert.ErrorIs(t, err, service.ErrCommentNotFound)
}

func TestLikeToggles(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, f.otherID, f.postID, "likeable")
	require.NoError(t, err)

	r, err := f.svc.Like(ctx, f.authorID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: true, Count: 1}, r)

	r, err = f.svc.Like(ctx, f.authorID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, &structs.LikeResult{Liked: false, Count: 0}, r)

	_, err = f.svc.Like(ctx, f.authorID, "missing")
	assert.ErrorIs(t, err, service.ErrCommentNotFound)
}

func TestDeleteDropsLikes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, f.otherID, f.postID, "short lived")
	require.NoError(t, err)
	_, err = f.svc.Like(ctx, f.authorID, c.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.otherID, c.ID))

	var n int
	require.NoError(t, f.env.DB().Get(&n, `SELECT COUNT(*) FROM relations WHERE owner_id = ?`, c.ID))
	assert.Zero(t, n)
}
