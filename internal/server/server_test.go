package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/internal/moduletest"
	"github.com/ncobase/socialhub/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func router(t *testing.T) (*moduletest.Env, http.Handler) {
	t.Helper()
	env := moduletest.New(t)
	return env, env.Start(t).Router()
}

func TestHealth(t *testing.T) {
	_, h := router(t)

	w := moduletest.Request(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, moduletest.Decode(t, w), "services")
	assert.NotEmpty(t, w.Header().Get(server.TraceHeader))
}

func TestTraceHeaderIsEchoed(t *testing.T) {
	_, h := router(t)

	req := httptestRequest(http.MethodGet, "/health")
	req.Header.Set(server.TraceHeader, "trace-123")
	w := record(h, req)
	assert.Equal(t, "trace-123", w.Header().Get(server.TraceHeader))
}

func TestUnknownRoute(t *testing.T) {
	_, h := router(t)
	w := moduletest.Request(t, h, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignupAndLogin(t *testing.T) {
	_, h := router(t)
	body := map[string]string{"userName": "alice", "email": "alice@example.com", "password": "secret123"}

	w := moduletest.Request(t, h, http.MethodPost, "/users/signup", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, moduletest.Decode(t, w)["token"])

	w = moduletest.Request(t, h, http.MethodPost, "/users/signup", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodPost, "/users/signup", "", map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodPost, "/api/v1/users/login", "",
		map[string]string{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := moduletest.Decode(t, w)
	assert.NotEmpty(t, out["token"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "alice", user["userName"])
	assert.NotContains(t, user, "password")

	w = moduletest.Request(t, h, http.MethodPost, "/users/login", "",
		map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = moduletest.Request(t, h, http.MethodGet, "/users/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User logged out successfully", moduletest.Decode(t, w)["message"])
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	env, h := router(t)
	env.CreateUser(t, "alice", "alice@example.com")

	for _, path := range []string{"/posts", "/users/bookmarks", "/stories/someone", "/api/v1/comments/p1"} {
		w := moduletest.Request(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := moduletest.Request(t, h, http.MethodGet, "/posts", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = moduletest.Request(t, h, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, moduletest.Decode(t, w)["count"])
}

func TestProfileVisibility(t *testing.T) {
	env, h := router(t)
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	env.SetStatus(t, bob.ID, structs.StatusPrivate)
	token := env.Token(t, alice)

	w := moduletest.Request(t, h, http.MethodGet, "/users/user-private/"+bob.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := moduletest.Decode(t, w)["user"].(map[string]any)
	assert.NotContains(t, profile, "posts")
	assert.NotContains(t, profile, "password")

	w = moduletest.Request(t, h, http.MethodPost, "/users/follow/"+bob.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Process done successfully", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodGet, "/users/user-private/"+bob.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, moduletest.Decode(t, w)["user"], "posts")

	w = moduletest.Request(t, h, http.MethodPost, "/users/follow/"+alice.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot follow yourself", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodPut, "/users", token, map[string]string{"status": "secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid input", moduletest.Decode(t, w)["message"])
}

func TestPostAndCommentOwnership(t *testing.T) {
	env, h := router(t)
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	aliceToken, bobToken := env.Token(t, alice), env.Token(t, bob)

	w := moduletest.Form(t, h, http.MethodPost, "/posts", aliceToken,
		map[string]string{"description": "first light"}, map[string][]byte{"image": moduletest.PNG()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := moduletest.Decode(t, w)
	assert.Equal(t, "Post created successfully", created["message"])
	postID := created["post"].(map[string]any)["id"].(string)

	w = moduletest.Form(t, h, http.MethodPost, "/posts", aliceToken, map[string]string{"description": "no image"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Post should have an image", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodPut, "/posts/"+postID, bobToken, map[string]string{"description": "hijacked"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You are not authorized to update this post", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodGet, "/posts/post/"+postID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "first light", moduletest.Decode(t, w)["post"].(map[string]any)["description"])

	w = moduletest.Request(t, h, http.MethodPost, "/posts/like/"+postID, bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	liked := moduletest.Decode(t, w)
	assert.Equal(t, true, liked["liked"])
	assert.EqualValues(t, 1, liked["count"])

	w = moduletest.Request(t, h, http.MethodPost, "/comments/"+postID, bobToken, map[string]string{"content": "lovely"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commentID := moduletest.Decode(t, w)["comment"].(map[string]any)["id"].(string)

	w = moduletest.Request(t, h, http.MethodPut, "/comments/"+commentID, aliceToken, map[string]string{"content": "edited"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to update this comment", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodPost, "/comments/"+postID, bobToken,
		map[string]string{"content": strings.Repeat("a", 701)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Comment too long", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodDelete, "/posts/"+postID, bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = moduletest.Request(t, h, http.MethodDelete, "/posts/"+postID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodGet, "/posts/post/"+postID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = moduletest.Request(t, h, http.MethodGet, "/comments/"+postID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryViewsAndInfo(t *testing.T) {
	env, h := router(t)
	alice := env.CreateUser(t, "alice", "alice@example.com")
	bob := env.CreateUser(t, "bob", "bob@example.com")
	aliceToken, bobToken := env.Token(t, alice), env.Token(t, bob)

	w := moduletest.Form(t, h, http.MethodPost, "/stories", aliceToken,
		map[string]string{"caption": "morning"}, map[string][]byte{"image": moduletest.PNG()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	storyID := moduletest.Decode(t, w)["story"].(map[string]any)["id"].(string)

	for range 2 {
		w = moduletest.Request(t, h, http.MethodGet, "/stories/story/"+storyID, bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = moduletest.Request(t, h, http.MethodGet, "/stories/info/"+storyID, bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You are not authorized to view story Info", moduletest.Decode(t, w)["message"])

	w = moduletest.Request(t, h, http.MethodGet, "/stories/info/"+storyID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := moduletest.Decode(t, w)["story"].(map[string]any)
	assert.Len(t, info["usersViewedStory"], 1)
	assert.Len(t, info["usersLikedStory"], 0)

	w = moduletest.Request(t, h, http.MethodGet, "/stories/"+alice.ID, bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = moduletest.Request(t, h, http.MethodGet, "/stories/"+alice.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, moduletest.Decode(t, w)["stories"], 1)
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func record(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
