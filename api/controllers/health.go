package controllers

import (
	"context"
	"net/http"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/pkg/config"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DukaPOS-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DukaPOS-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok", "redis": "ok"}
		healthy := true

		if db == nil {
			checks["db"] = "unconfigured"
			healthy = false
		} else if err := db.Ping(r.Context()); err != nil {
			checks["db"] = "unreachable"
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "health.db_ping_failed", err)
			}
		}

		if cache == nil {
			checks["redis"] = "unconfigured"
			healthy = false
		} else if err := cache.Ping(r.Context()); err != nil {
			checks["redis"] = "unreachable"
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "health.redis_ping_failed", err)
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready").
				WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
