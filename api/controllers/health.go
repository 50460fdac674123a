package controllers

import (
	"context"
	"net/http"

	"github.com/shopworks/storefront-backend/api/responses"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/logger"
)

// Pinger checks connectivity to a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady reports readiness only when the database and session store
// both answer.
func HealthReady(db, sessions Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"sessions": "ok",
		}

		var failed error
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				checks["database"] = "unavailable"
				failed = err
			}
		}
		if sessions != nil {
			if err := sessions.Ping(r.Context()); err != nil {
				checks["sessions"] = "unavailable"
				failed = err
			}
		}

		if failed != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, failed, "readiness check failed").
				WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checks)
	}
}
