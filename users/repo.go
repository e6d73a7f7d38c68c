package users

import "context"

// Repo is the external user-record store. Lookups return
// apperrors.ErrUserNotFound when no record matches.
type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	DeleteByUsername(ctx context.Context, username string) (*User, error)
}
