package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventhub/eventhub/auth"
	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/token"
	"github.com/eventhub/eventhub/users"
	fakeuserrepo "github.com/eventhub/eventhub/users/repofake"
)

func TestService_Authenticate(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	service, err := auth.NewService(repo)
	require.NoError(t, err)

	alice := &users.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, service.Register(context.Background(), alice, "Str0ngPassword"))

	t.Run("valid credentials", func(t *testing.T) {
		user, err := service.Authenticate(context.Background(), "alice", "Str0ngPassword")
		require.NoError(t, err)
		require.Equal(t, alice.ID, user.ID)
		require.Equal(t, token.RoleUser, user.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(context.Background(), "alice", "WrongPassword1")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Authenticate(context.Background(), "mallory", "Str0ngPassword")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, wrongPassword := service.Authenticate(context.Background(), "alice", "WrongPassword1")
		_, unknownUser := service.Authenticate(context.Background(), "mallory", "WrongPassword1")
		require.Equal(t, wrongPassword.Error(), unknownUser.Error())
	})
}

func TestService_Register(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	service, err := auth.NewService(repo)
	require.NoError(t, err)

	t.Run("hashes the password", func(t *testing.T) {
		bob := &users.User{Username: "bob", Email: "bob@example.com"}
		require.NoError(t, service.Register(context.Background(), bob, "Str0ngPassword"))

		stored, err := repo.GetByUsername(context.Background(), "bob")
		require.NoError(t, err)
		require.NotEqual(t, "Str0ngPassword", stored.PasswordHash)
		require.True(t, users.CheckPasswordHash("Str0ngPassword", stored.PasswordHash))
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		err := service.Register(context.Background(), &users.User{Username: "carol"}, "weak")
		require.Error(t, err)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		err := service.Register(context.Background(), &users.User{Username: "bob"}, "Str0ngPassword")
		require.ErrorIs(t, err, apperrors.ErrDuplicate)
	})

	t.Run("preserves an explicit role", func(t *testing.T) {
		admin := &users.User{Username: "root", Role: token.RoleAdmin}
		require.NoError(t, service.Register(context.Background(), admin, "Str0ngPassword"))
		require.Equal(t, token.RoleAdmin, admin.Role)
	})
}
