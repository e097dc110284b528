package auth

import (
	"net/http"
	"strings"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/web"
)

// HeaderName is the key header every request must carry.
const HeaderName = "API_KEY"

// Middleware authenticates the API_KEY header and enforces endpoint
// access before any handler runs. Unknown or missing key: 401. Known key
// without access to the resource/method: 403.
func (s *service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Authenticate(r.Context(), r.Header.Get(HeaderName))
		if err != nil {
			web.Error(w, http.StatusUnauthorized, "invalid or missing API_KEY")
			return
		}

		resource, hasID := resourceFromPath(r.URL.Path)
		if !user.HasAccess(resource, r.Method, hasID) {
			web.Error(w, http.StatusForbidden, "access denied for "+resource)
			return
		}

		ctx := audit.WithIdentity(r.Context(), audit.Identity{
			APIKey: user.APIKey,
			App:    user.App,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resourceFromPath extracts the resource segment of a versioned path,
// e.g. "/api/v2/warehouses/3" -> ("warehouses", true).
func resourceFromPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	// api / vN / resource / rest...
	if len(parts) < 3 || parts[0] != "api" {
		return "", false
	}
	return parts[2], len(parts) > 3 && parts[3] != ""
}
