package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/foodwaste-backend/api/responses"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
)

// ExpiryRefresher is the subset of the status maintainer the read path needs.
type ExpiryRefresher interface {
	Refresh(ctx context.Context, now time.Time) (int64, error)
}

// RefreshExpiry runs the expiry sweep before each request so reads never see
// a listing that is past its date but still Available. A failed sweep fails
// the request.
func RefreshExpiry(refresher ExpiryRefresher, now func() time.Time, logg *logger.Logger) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		if refresher == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := refresher.Refresh(r.Context(), now()); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
