package middleware

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

// UserIDHeader carries the caller identity resolved by the gateway in front
// of this service. The service trusts the header as-is.
const UserIDHeader = "X-User-ID"

// Identity resolves the calling user from the gateway header and injects it
// into the request context. Requests without a parseable positive user id are
// rejected before they reach any handler.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID < 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code": 401, "message": "missing or invalid user identity"}`))
			return
		}

		ctx := internal.ContextWithUserID(r.Context(), userID)
		ctx = logger.With(ctx, "user_id", userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
