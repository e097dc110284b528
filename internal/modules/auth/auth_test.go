package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	users := storage.NewMemory[User]()
	s := NewService(users, audit.NewMemoryRecorder(), "owner-key", "Dashboard")

	seed := []User{
		{
			APIKey:         "full-key",
			App:            "CMS",
			EndpointAccess: FullAccess(),
			IsActive:       true,
		},
		{
			APIKey: "readonly-key",
			App:    "StoreFront",
			EndpointAccess: map[string]Access{
				"warehouses": {All: true, Single: true},
			},
			IsActive: true,
		},
		{
			APIKey:         "revoked-key",
			App:            "OldApp",
			EndpointAccess: FullAccess(),
			IsActive:       false,
		},
	}
	for _, u := range seed {
		if err := users.Create(context.Background(), u.APIKey, u); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		wantApp string
		wantErr bool
	}{
		{"owner key", "owner-key", "Dashboard", false},
		{"stored key", "full-key", "CMS", false},
		{"limited key", "readonly-key", "StoreFront", false},
		{"missing key", "", "", true},
		{"unknown key", "who-dis", "", true},
		{"inactive key", "revoked-key", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Authenticate(ctx, tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("got %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("authenticate: %v", err)
			}
			if u.App != tt.wantApp {
				t.Errorf("app = %q, want %q", u.App, tt.wantApp)
			}
		})
	}
}

func TestHasAccess(t *testing.T) {
	limited := User{EndpointAccess: map[string]Access{
		"warehouses": {All: true, Single: true, Create: true},
	}}

	tests := []struct {
		resource string
		method   string
		hasID    bool
		want     bool
	}{
		{"warehouses", "GET", false, true},
		{"warehouses", "GET", true, true},
		{"warehouses", "POST", false, true},
		{"warehouses", "PUT", true, false},
		{"warehouses", "DELETE", true, false},
		{"orders", "GET", false, false},
	}
	for _, tt := range tests {
		if got := limited.HasAccess(tt.resource, tt.method, tt.hasID); got != tt.want {
			t.Errorf("HasAccess(%q, %s, %v) = %v, want %v", tt.resource, tt.method, tt.hasID, got, tt.want)
		}
	}

	full := User{EndpointAccess: FullAccess()}
	if !full.HasAccess("anything", "DELETE", true) {
		t.Error("full access key denied")
	}
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t)

	var gotIdentity audit.Identity
	r := chi.NewRouter()
	r.Route("/api/v2", func(r chi.Router) {
		r.Use(s.Middleware)
		r.Get("/warehouses", func(w http.ResponseWriter, r *http.Request) {
			gotIdentity = audit.IdentityFrom(r.Context())
			web.Respond(w, http.StatusOK, []string{})
		})
		r.Delete("/warehouses/{id}", func(w http.ResponseWriter, r *http.Request) {
			web.Respond(w, http.StatusNoContent, nil)
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	do := func(method, path, key string) int {
		req, err := http.NewRequest(method, srv.URL+path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if key != "" {
			req.Header.Set(HeaderName, key)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := do("GET", "/warehouses", "full-key"); got != http.StatusNotFound {
		// outside /api the route does not exist at all
		t.Errorf("unversioned path = %d, want 404", got)
	}
	if got := do("GET", "/api/v2/warehouses", ""); got != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", got)
	}
	if got := do("GET", "/api/v2/warehouses", "who-dis"); got != http.StatusUnauthorized {
		t.Errorf("unknown key = %d, want 401", got)
	}
	if got := do("GET", "/api/v2/warehouses", "revoked-key"); got != http.StatusUnauthorized {
		t.Errorf("inactive key = %d, want 401", got)
	}
	if got := do("GET", "/api/v2/warehouses", "readonly-key"); got != http.StatusOK {
		t.Errorf("limited key allowed method = %d, want 200", got)
	}
	if got := do("DELETE", "/api/v2/warehouses/3", "readonly-key"); got != http.StatusForbidden {
		t.Errorf("limited key forbidden method = %d, want 403", got)
	}
	if got := do("DELETE", "/api/v2/warehouses/3", "owner-key"); got != http.StatusNoContent {
		t.Errorf("owner key = %d, want 204", got)
	}

	if gotIdentity.APIKey != "readonly-key" || gotIdentity.App != "StoreFront" {
		t.Errorf("identity on context = %+v, want readonly-key/StoreFront", gotIdentity)
	}
}

func TestUserRegistryHandler(t *testing.T) {
	s := newTestService(t)
	r := chi.NewRouter()
	NewHandler(s).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	// create
	body := `{"api_key":"new-key","app":"Integration","endpoint_access":{"orders":{"all":true}},"is_active":true}`
	resp, err := http.Post(srv.URL+"/users", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user = %d, want 201", resp.StatusCode)
	}

	// missing app rejected
	resp, err = http.Post(srv.URL+"/users", "application/json", strings.NewReader(`{"api_key":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("create without app = %d, want 400", resp.StatusCode)
	}

	// update
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/users/new-key",
		strings.NewReader(`{"app":"Integration v2","is_active":true}`))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("update user = %d, want 204", resp.StatusCode)
	}

	// delete, then the key no longer resolves
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/users/new-key", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete user = %d, want 204", resp.StatusCode)
	}
	resp, err = http.Get(srv.URL + "/users/new-key")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted user = %d, want 404", resp.StatusCode)
	}
}
