package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a settings key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair is a stored settings entry (API keys, defaults) with metadata.
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage is the process-wide settings store. It holds credentials
// and defaults only; analysis run state is never persisted.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	GetPair(ctx context.Context, key string) (*KeyValuePair, error)
	Set(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyValuePair, error)
}
