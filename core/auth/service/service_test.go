package service_test

import (
	"context"
	"testing"

	"github.com/ncobase/socialhub/core/auth"
	"github.com/ncobase/socialhub/core/auth/service"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/internal/moduletest"
	"github.com/ncobase/socialhub/security/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*moduletest.Env, *service.Service) {
	t.Helper()
	env := moduletest.New(t)
	env.Start(t)
	return env, moduletest.Service[*service.Service](t, env, auth.ServiceKey)
}

func TestSignupAndLogin(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()

	token, err := svc.Signup(ctx, &structs.SignupRequest{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := env.App.Tokens.DecodeToken(token)
	require.NoError(t, err)
	userID := jwt.GetUserIDFromToken(claims)
	assert.NotEmpty(t, userID)

	result, err := svc.Login(ctx, &structs.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
	assert.Equal(t, structs.StatusPublic, result.User.Status)
	assert.NotEmpty(t, result.Token)

	authenticated, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, authenticated)
}

func TestSignupRejects(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	env.CreateUser(t, "alice", "alice@example.com")

	tests := []struct {
		name string
		req  structs.SignupRequest
		kind ecode.Kind
		msg  string
	}{
		{"missing password", structs.SignupRequest{UserName: "bob", Email: "bob@example.com"}, ecode.KindValidation, "All fields are required"},
		{"blank user name", structs.SignupRequest{UserName: "  ", Email: "bob@example.com", Password: "x"}, ecode.KindValidation, "All fields are required"},
		{"duplicate email", structs.SignupRequest{UserName: "alice2", Email: "alice@example.com", Password: "x"}, ecode.KindConflict, "User already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, &tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, ecode.KindOf(err))

			var e *ecode.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.msg, e.Message)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()
	env.CreateUser(t, "alice", "alice@example.com")

	_, err := svc.Login(ctx, &structs.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &structs.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &structs.LoginRequest{Email: "alice@example.com"})
	assert.ErrorIs(t, err, service.ErrMissingFields)
}

func TestAuthenticateRejects(t *testing.T) {
	env, svc := setup(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	ghost := structs.NewUser("00000000-0000-0000-0000-000000000000", "ghost", "ghost@example.com", "", "")
	_, err = svc.Authenticate(ctx, env.Token(t, ghost))
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
