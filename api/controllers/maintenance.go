package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/foodwaste-backend/api/responses"
	"github.com/angelmondragon/foodwaste-backend/internal/expiry"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
)

// RunExpirySweep triggers the status maintainer on demand.
func RunExpirySweep(svc expiry.Service, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expiry service unavailable"))
			return
		}

		updated, err := svc.Refresh(r.Context(), now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
