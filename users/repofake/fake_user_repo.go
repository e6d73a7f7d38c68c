package fakeuserrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[string]*users.User
	usernames map[string]string // username to user id
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[string]*users.User),
		usernames: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, exists := ur.usernames[user.Username]; exists {
		return apperrors.ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	copied := *user
	ur.users[copied.ID] = &copied
	ur.usernames[copied.Username] = copied.ID
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *ur.users[id]
	return &copied, nil
}

func (ur *FakeUserRepo) List(_ context.Context) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.User, 0, len(ur.users))
	for _, u := range ur.users {
		copied := *u
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if existing.Username != user.Username {
		if _, taken := ur.usernames[user.Username]; taken {
			return apperrors.ErrDuplicate
		}
		delete(ur.usernames, existing.Username)
		ur.usernames[user.Username] = user.ID
	}

	copied := *user
	ur.users[copied.ID] = &copied
	return nil
}

func (ur *FakeUserRepo) DeleteByUsername(_ context.Context, username string) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	deleted := *ur.users[id]
	delete(ur.users, id)
	delete(ur.usernames, username)
	return &deleted, nil
}
