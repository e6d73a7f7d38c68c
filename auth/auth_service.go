// Package auth verifies submitted credentials against the user-record
// store. It deliberately collapses "unknown user" and "wrong password"
// into one outcome so responses cannot be used to probe for usernames.
package auth

import (
	"context"

	"github.com/pkg/errors"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/token"
	"github.com/eventhub/eventhub/users"
)

type Service struct {
	users users.Repo
}

func NewService(userRepo users.Repo) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] users repo is required")
	}
	return &Service{users: userRepo}, nil
}

// Authenticate looks up the credential record by username and compares
// the supplied password against the stored bcrypt hash. Both failure
// modes return ErrInvalidCredentials; store faults surface as wrapped
// internal errors.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Service Authenticate] GetByUsername")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Register hashes the password once and stores the new credential record.
// New users always start with the regular role.
func (s *Service) Register(ctx context.Context, user *users.User, password string) error {
	if err := users.ValidatePasswordStrength(password); err != nil {
		return err
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "[Service Register] HashPassword")
	}
	user.PasswordHash = hash
	if user.Role == "" {
		user.Role = token.RoleUser
	}

	if err := s.users.Create(ctx, user); err != nil {
		return errors.Wrap(err, "[Service Register] Create")
	}
	return nil
}
