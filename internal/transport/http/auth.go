package http

import (
	"context"
	"net/http"
	"strings"

	"brainbuzz/internal/app"
	"brainbuzz/internal/domain"
)

type ctxKey int

const identityKey ctxKey = iota

// deviceHeader carries the device id that keys local stats for REST calls;
// WebSocket clients pass ?device= instead.
const deviceHeader = "X-Device-ID"

// withIdentity resolves an Authorization bearer token (or ?token= for
// WebSocket upgrades) into the request context. A rejected token is a 401;
// no token leaves the request anonymous.
func withIdentity(profiles *app.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := profiles.Authenticate(r.Context(), token)
			if err != nil {
				respondError(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// requireIdentity rejects anonymous requests.
func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFrom(r.Context()); !ok {
			respondError(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

func playerFrom(r *http.Request) app.Player {
	id, _ := identityFrom(r.Context())
	device := r.URL.Query().Get("device")
	if device == "" {
		device = r.Header.Get(deviceHeader)
	}
	return app.Player{Identity: id, Device: device}
}
