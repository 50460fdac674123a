package middleware

import (
	"fmt"
	"net/http"

	"github.com/shopworks/storefront-backend/api/responses"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/logger"
)

// Recoverer converts handler panics into 500 responses instead of tearing
// down the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("%v", rec), "panic recovered")
					if logg != nil {
						logg.Error(r.Context(), "panic.recovered", err)
					}
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
