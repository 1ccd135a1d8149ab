package docstore

import (
	"context"
	"encoding/json"
)

// Store is the document store contract shared by the in-process store and the
// remote gRPC client.
type Store interface {
	// Get reads the value at path.
	Get(ctx context.Context, path string) (Snapshot, error)
	// Set replaces the value at path. A nil value deletes it.
	Set(ctx context.Context, path string, value any) error
	// Update applies every path → value pair atomically.
	Update(ctx context.Context, updates map[string]any) error
	// Remove deletes path. Removing a missing path is not an error.
	Remove(ctx context.Context, path string) error
	// Watch calls fn with the value at path now and after every change that
	// affects it, until the returned Subscription is cancelled.
	Watch(ctx context.Context, path string, fn func(Snapshot)) (Subscription, error)
}

// Subscription is a standing watch. Cancel is safe to call more than once.
type Subscription interface {
	Cancel()
}

// Snapshot is the full value of one path at one point in time.
type Snapshot struct {
	Path   string
	Value  any
	Exists bool
}

// Decode unmarshals the snapshot value into v the way encoding/json would.
// An absent value leaves v untouched.
func (s Snapshot) Decode(v any) error {
	if !s.Exists {
		return nil
	}
	b, err := json.Marshal(s.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Cancel() { f() }
