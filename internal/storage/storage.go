package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when no record exists for the given key.
	ErrNotFound = errors.New("record not found")
	// ErrExists is returned when a create collides with an existing key.
	ErrExists = errors.New("record already exists")
)

// Collection is the CRUD contract every resource collection satisfies.
// Keys are strings; numeric ids are formatted with strconv, items use
// their uid, stock logs their timestamp.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, key string) (T, error)
	Create(ctx context.Context, key string, v T) error
	// CreateWithNextID assigns the next numeric id (max existing + 1)
	// and inserts in a single critical section, so concurrent creators
	// never observe the same id. build receives the id and returns the
	// storage key and the record to insert.
	CreateWithNextID(ctx context.Context, build func(id int) (string, T)) (T, error)
	Put(ctx context.Context, key string, v T) error
	Delete(ctx context.Context, key string) error
}

// keyNum extracts the numeric portion of a key. Plain integer keys parse
// directly; prefixed keys like "P000123" yield their digit suffix.
func keyNum(key string) (int, bool) {
	trimmed := strings.TrimLeftFunc(key, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return n, true
}
