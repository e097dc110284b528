package audit

import (
	"context"
	"time"
)

// Entry is one append-only record of a state-changing operation.
type Entry struct {
	Timestamp   time.Time         `json:"timestamp"`
	Action      string            `json:"action"`
	PerformedBy string            `json:"performed_by"`
	APIKey      string            `json:"api_key"`
	Resource    string            `json:"resource"`
	ResourceID  string            `json:"resource_id"`
	Details     map[string]string `json:"details,omitempty"`
}

// Identity is the caller resolved from the API_KEY header.
type Identity struct {
	APIKey string
	App    string
}

type ctxKey struct{}

// WithIdentity stores the authenticated caller on the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the caller from the context, if any.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// NewEntry stamps an entry with the server clock and the caller from ctx.
func NewEntry(ctx context.Context, action, resource, resourceID string) Entry {
	id := IdentityFrom(ctx)
	return Entry{
		Timestamp:   time.Now().UTC(),
		Action:      action,
		PerformedBy: id.App,
		APIKey:      id.APIKey,
		Resource:    resource,
		ResourceID:  resourceID,
	}
}
