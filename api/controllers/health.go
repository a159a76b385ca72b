package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/foodwaste-backend/api/responses"
	"github.com/angelmondragon/foodwaste-backend/pkg/config"
	"github.com/angelmondragon/foodwaste-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
)

const envHeader = "X-FoodWaste-Env"

const readyTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, store db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "store not configured"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store ping failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready", "store": "ok"})
	}
}
