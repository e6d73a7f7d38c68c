package events

import "context"

// Event is a scheduled activity users can subscribe to.
type Event struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	Schedule string `json:"schedule" bson:"schedule"` // e.g. "16:30 - 17:30"
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
}

// Repo is the external event-record store consumed by the authorized
// endpoints. Lookups return apperrors.ErrEventNotFound when no record
// matches.
type Repo interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) (*Event, error)
}
