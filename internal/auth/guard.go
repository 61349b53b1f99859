package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/dramaxav/curia-management/internal"
)

// ScopeExtractor pulls an optional praesidium scope out of the request.
// A nil result means the check runs unscoped.
type ScopeExtractor func(r *http.Request) *int64

// ScopeFromQuery reads the scope from a query parameter.
func ScopeFromQuery(param string) ScopeExtractor {
	return func(r *http.Request) *int64 {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return &id
	}
}

// ScopeFromURLParam reads the scope from a chi route parameter.
func ScopeFromURLParam(param string) ScopeExtractor {
	return func(r *http.Request) *int64 {
		raw := chi.URLParam(r, param)
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return &id
	}
}

// denial is the structured body returned when an authenticated caller
// lacks the required privilege. Informative rather than a redirect: the
// caller is known, it just may not do this.
type denial struct {
	UserID             int64  `json:"user_id"`
	Poste              string `json:"poste"`
	RequiredPermission string `json:"required_permission"`
	Scope              *int64 `json:"scope,omitempty"`
}

// Guard gates protected routes on authentication and permissions.
type Guard struct {
	logger *slog.Logger
}

func NewGuard(logger *slog.Logger) *Guard {
	return &Guard{logger: logger}
}

// RequireAuth admits any authenticated caller. Unauthenticated requests
// get a 401 carrying the originally requested destination so the client
// can come back after login.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user == nil {
			g.logger.Warn("access denied: not authenticated", "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"message":     "authentication required",
				"redirect_to": r.URL.RequestURI(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission admits callers holding the permission under the
// praesidium scoping rule. The denial response names the actor, their
// poste, the permission that was required and the scope, if any.
func (g *Guard) RequirePermission(permission Permission, scope ScopeExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
					"message":     "authentication required",
					"redirect_to": r.URL.RequestURI(),
				})
				return
			}

			var praesidiumID *int64
			if scope != nil {
				praesidiumID = scope(r)
			}

			if !Allowed(user, permission, praesidiumID) {
				g.logger.Warn("access denied: insufficient permissions",
					"user_id", user.ID,
					"poste", user.Poste,
					"required_permission", permission,
					"scope", praesidiumID)
				appErr := internal.ErrUnauthorizedAccess.WithDetails(denial{
					UserID:             user.ID,
					Poste:              user.Poste,
					RequiredPermission: string(permission),
					Scope:              praesidiumID,
				})
				status, body := appErr.ToHTTPResponse()
				writeJSON(w, status, body)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission admits callers holding at least one of the given
// permissions. Used where the exact privilege depends on data the route
// cannot see, like an approval's kind.
func (g *Guard) RequireAnyPermission(permissions ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
					"message":     "authentication required",
					"redirect_to": r.URL.RequestURI(),
				})
				return
			}

			for _, p := range permissions {
				if Allowed(user, p, nil) {
					next.ServeHTTP(w, r)
					return
				}
			}

			g.logger.Warn("access denied: insufficient permissions",
				"user_id", user.ID,
				"poste", user.Poste)
			appErr := internal.ErrUnauthorizedAccess.WithDetails(denial{
				UserID: user.ID,
				Poste:  user.Poste,
			})
			status, body := appErr.ToHTTPResponse()
			writeJSON(w, status, body)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// PublicOnly inverts the check for login/registration style routes:
// already-authenticated callers are redirected to the landing location.
func (g *Guard) PublicOnly(landing string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := UserFromContext(r.Context()); ok && user != nil {
				http.Redirect(w, r, landing, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
