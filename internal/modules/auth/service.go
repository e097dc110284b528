package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// ErrUnauthorized is returned for a missing, unknown or inactive key.
var ErrUnauthorized = errors.New("invalid api key")

// Service authenticates API keys and manages the key registry.
type Service interface {
	Authenticate(ctx context.Context, apiKey string) (User, error)
	Middleware(next http.Handler) http.Handler
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, apiKey string) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, apiKey string, u User) error
	DeleteUser(ctx context.Context, apiKey string) error
}

type service struct {
	users    storage.Collection[User]
	rec      audit.Recorder
	ownerKey string
	ownerApp string
}

// NewService builds the key registry. ownerKey always authenticates with
// full access and never lives in the store.
func NewService(users storage.Collection[User], rec audit.Recorder, ownerKey, ownerApp string) Service {
	return &service{users: users, rec: rec, ownerKey: ownerKey, ownerApp: ownerApp}
}

func (s *service) Authenticate(ctx context.Context, apiKey string) (User, error) {
	if apiKey == "" {
		return User{}, ErrUnauthorized
	}
	if s.ownerKey != "" &&
		subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.ownerKey)) == 1 {
		return User{
			APIKey:         s.ownerKey,
			App:            s.ownerApp,
			EndpointAccess: FullAccess(),
			IsActive:       true,
		}, nil
	}
	u, err := s.users.Get(ctx, apiKey)
	if err != nil || !u.IsActive {
		return User{}, ErrUnauthorized
	}
	return u, nil
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

func (s *service) GetUser(ctx context.Context, apiKey string) (User, error) {
	return s.users.Get(ctx, apiKey)
}

func (s *service) CreateUser(ctx context.Context, u User) (User, error) {
	if u.APIKey == "" {
		return User{}, web.Invalid("api_key is required")
	}
	if u.App == "" {
		return User{}, web.Invalid("app is required")
	}
	if u.EndpointAccess == nil {
		u.EndpointAccess = map[string]Access{}
	}
	if err := s.users.Create(ctx, u.APIKey, u); err != nil {
		return User{}, err
	}
	e := audit.NewEntry(ctx, "create", "users", u.APIKey)
	e.Details = map[string]string{"app": u.App}
	if err := s.rec.Append(ctx, e); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) UpdateUser(ctx context.Context, apiKey string, u User) error {
	old, err := s.users.Get(ctx, apiKey)
	if err != nil {
		return err
	}
	if u.App == "" {
		return web.Invalid("app is required")
	}
	u.APIKey = apiKey
	if err := s.users.Put(ctx, apiKey, u); err != nil {
		return err
	}
	e := audit.NewEntry(ctx, "update", "users", apiKey)
	e.Details = map[string]string{"old_app": old.App, "new_app": u.App}
	return s.rec.Append(ctx, e)
}

func (s *service) DeleteUser(ctx context.Context, apiKey string) error {
	if err := s.users.Delete(ctx, apiKey); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "users", apiKey))
}
