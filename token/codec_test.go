package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/token"
)

func newTestCodec(options ...token.CodecOption) *token.Codec {
	return token.NewCodec(
		token.NewHMACSigner("access-secret"),
		token.NewHMACSigner("refresh-secret"),
		options...,
	)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec()
	identity := token.Identity{ID: "user-1", Role: token.RoleAdmin}

	t.Run("access token", func(t *testing.T) {
		signed, err := codec.IssueAccess(identity)
		require.NoError(t, err)

		decoded, err := codec.VerifyAccess(signed)
		require.NoError(t, err)
		require.Equal(t, identity, *decoded)
	})

	t.Run("refresh token", func(t *testing.T) {
		signed, err := codec.IssueRefresh(identity)
		require.NoError(t, err)

		decoded, err := codec.VerifyRefresh(signed)
		require.NoError(t, err)
		require.Equal(t, identity, *decoded)
	})
}

func TestCodec_ClassSeparation(t *testing.T) {
	codec := newTestCodec()
	identity := token.Identity{ID: "user-1", Role: token.RoleUser}

	accessToken, err := codec.IssueAccess(identity)
	require.NoError(t, err)
	refreshToken, err := codec.IssueRefresh(identity)
	require.NoError(t, err)

	t.Run("access token rejected by refresh verifier", func(t *testing.T) {
		_, err := codec.VerifyRefresh(accessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("refresh token rejected by access verifier", func(t *testing.T) {
		_, err := codec.VerifyAccess(refreshToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestCodec_Expiry(t *testing.T) {
	now := time.Now()
	clock := now
	codec := newTestCodec(
		token.WithTokenExpiry(15*time.Second, time.Hour),
		token.WithNowFunc(func() time.Time { return clock }),
	)
	identity := token.Identity{ID: "user-1", Role: token.RoleUser}

	accessToken, err := codec.IssueAccess(identity)
	require.NoError(t, err)
	refreshToken, err := codec.IssueRefresh(identity)
	require.NoError(t, err)

	t.Run("valid before expiry", func(t *testing.T) {
		clock = now.Add(14 * time.Second)
		_, err := codec.VerifyAccess(accessToken)
		require.NoError(t, err)
	})

	t.Run("rejected after expiry", func(t *testing.T) {
		clock = now.Add(16 * time.Second)
		_, err := codec.VerifyAccess(accessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("refresh outlives access", func(t *testing.T) {
		clock = now.Add(16 * time.Second)
		decoded, err := codec.VerifyRefresh(refreshToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", decoded.ID)
	})
}

func TestCodec_VerifyFailsClosed(t *testing.T) {
	codec := newTestCodec()

	t.Run("wrong secret", func(t *testing.T) {
		other := token.NewCodec(
			token.NewHMACSigner("some-other-secret"),
			token.NewHMACSigner("refresh-secret"),
		)
		signed, err := other.IssueAccess(token.Identity{ID: "user-1", Role: token.RoleUser})
		require.NoError(t, err)

		_, err = codec.VerifyAccess(signed)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := codec.VerifyAccess("not.a.jwt")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := codec.VerifyAccess("")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		signed, err := codec.IssueAccess(token.Identity{ID: "user-1", Role: token.Role("superuser")})
		require.NoError(t, err)

		_, err = codec.VerifyAccess(signed)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("empty subject claim", func(t *testing.T) {
		signed, err := codec.IssueAccess(token.Identity{ID: "", Role: token.RoleUser})
		require.NoError(t, err)

		_, err = codec.VerifyAccess(signed)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
