package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	fakeeventrepo "github.com/eventhub/eventhub/events/repofake"
	"github.com/eventhub/eventhub/internal/config"
	"github.com/eventhub/eventhub/server"
	"github.com/eventhub/eventhub/token"
	"github.com/eventhub/eventhub/users"
	fakeuserrepo "github.com/eventhub/eventhub/users/repofake"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

type testEnv struct {
	server *server.Server
	users  *fakeuserrepo.FakeUserRepo
	events *fakeeventrepo.FakeEventRepo
	codec  *token.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	eventRepo := fakeeventrepo.NewFakeEventRepo()
	codec := token.NewCodec(
		token.NewHMACSigner(testAccessSecret),
		token.NewHMACSigner(testRefreshSecret),
	)

	srv, err := server.New(config.New(), server.Repos{Users: userRepo, Events: eventRepo}, codec, zerolog.Nop())
	require.NoError(t, err)

	return &testEnv{server: srv, users: userRepo, events: eventRepo, codec: codec}
}

func (e *testEnv) seedUser(t *testing.T, username, password string, role token.Role) *users.User {
	t.Helper()

	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	user := &users.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) accessToken(t *testing.T, user *users.User) string {
	t.Helper()
	signed, err := e.codec.IssueAccess(user.Identity())
	require.NoError(t, err)
	return signed
}

func (e *testEnv) request(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestRequireIdentity(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "Str0ngPassword", token.RoleUser)
	bob := env.seedUser(t, "bob", "Str0ngPassword", token.RoleUser)
	admin := env.seedUser(t, "root", "Str0ngPassword", token.RoleAdmin)

	t.Run("missing token is 401", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user/"+alice.ID, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/"+alice.ID, nil)
		req.Header.Set("Authorization", "Token abcdef")
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user/"+alice.ID, "not-a-token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is 401", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		staleCodec := token.NewCodec(
			token.NewHMACSigner(testAccessSecret),
			token.NewHMACSigner(testRefreshSecret),
			token.WithNowFunc(func() time.Time { return past }),
		)
		expired, err := staleCodec.IssueAccess(alice.Identity())
		require.NoError(t, err)

		rec := env.request(t, http.MethodGet, "/user/"+alice.ID, expired, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("own record is 200", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user/"+alice.ID, env.accessToken(t, alice), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got users.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, "alice", got.Username)
	})

	t.Run("someone else's record is 403", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user/"+alice.ID, env.accessToken(t, bob), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user/"+alice.ID, env.accessToken(t, admin), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any identity can list events", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/event", env.accessToken(t, bob), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "Str0ngPassword", token.RoleUser)
	admin := env.seedUser(t, "root", "Str0ngPassword", token.RoleAdmin)

	t.Run("missing token is 401", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("regular role is 403, not 401", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user", env.accessToken(t, alice), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin role is 200", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/user", env.accessToken(t, admin), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []*users.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 2)
	})
}

func TestRequireRefresh(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "Str0ngPassword", token.RoleUser)
	bob := env.seedUser(t, "bob", "Str0ngPassword", token.RoleUser)

	refreshToken, err := env.codec.IssueRefresh(alice.Identity())
	require.NoError(t, err)

	t.Run("missing fields is 401", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/user/refresh", "", map[string]string{"refreshToken": refreshToken})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.request(t, http.MethodPost, "/user/refresh", "", map[string]string{"userId": alice.ID})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access token in the refresh slot is 401", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/user/refresh", "", map[string]string{
			"refreshToken": env.accessToken(t, alice),
			"userId":       alice.ID,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("subject mismatch is 403", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/user/refresh", "", map[string]string{
			"refreshToken": refreshToken,
			"userId":       bob.ID,
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid exchange mints a new access token", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/user/refresh", "", map[string]string{
			"refreshToken": refreshToken,
			"userId":       alice.ID,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp server.RefreshResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)

		identity, err := env.codec.VerifyAccess(resp.Token)
		require.NoError(t, err)
		require.Equal(t, alice.ID, identity.ID)
	})

	t.Run("deleted account can no longer refresh", func(t *testing.T) {
		_, err := env.users.DeleteByUsername(context.Background(), "alice")
		require.NoError(t, err)

		rec := env.request(t, http.MethodPost, "/user/refresh", "", map[string]string{
			"refreshToken": refreshToken,
			"userId":       alice.ID,
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
