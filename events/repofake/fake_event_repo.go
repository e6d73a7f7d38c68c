package fakeeventrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/eventhub/eventhub/events"
	apperrors "github.com/eventhub/eventhub/internal/errors"
)

var _ events.Repo = (*FakeEventRepo)(nil)

type FakeEventRepo struct {
	events map[string]*events.Event
	lock   sync.RWMutex
}

func NewFakeEventRepo() *FakeEventRepo {
	return &FakeEventRepo{
		events: make(map[string]*events.Event),
	}
}

func (er *FakeEventRepo) Create(_ context.Context, event *events.Event) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	copied := *event
	er.events[copied.ID] = &copied
	return nil
}

func (er *FakeEventRepo) GetByID(_ context.Context, id string) (*events.Event, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	event, ok := er.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (er *FakeEventRepo) List(_ context.Context) ([]*events.Event, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	list := make([]*events.Event, 0, len(er.events))
	for _, e := range er.events {
		copied := *e
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (er *FakeEventRepo) Update(_ context.Context, event *events.Event) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	if _, ok := er.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	copied := *event
	er.events[copied.ID] = &copied
	return nil
}

func (er *FakeEventRepo) Delete(_ context.Context, id string) (*events.Event, error) {
	er.lock.Lock()
	defer er.lock.Unlock()

	event, ok := er.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	deleted := *event
	delete(er.events, id)
	return &deleted, nil
}
