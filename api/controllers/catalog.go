package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopworks/storefront-backend/api/middleware"
	"github.com/shopworks/storefront-backend/api/responses"
	"github.com/shopworks/storefront-backend/api/validators"
	"github.com/shopworks/storefront-backend/internal/catalog"
	"github.com/shopworks/storefront-backend/pkg/enums"
	"github.com/shopworks/storefront-backend/pkg/logger"
	"github.com/shopworks/storefront-backend/pkg/pagination"
)

func Home(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errMissingService())
			return
		}

		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, home)
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errMissingService())
			return
		}

		query := r.URL.Query()
		filter := catalog.ListFilter{
			CategorySlug: query.Get("category"),
			Search:       query.Get("q"),
			MinPrice:     validators.ParseQueryDecimal(r, "min_price"),
			MaxPrice:     validators.ParseQueryDecimal(r, "max_price"),
			Sort:         enums.ParseSortKey(query.Get("sort")),
			Page:         validators.ParseQueryInt(r, "page", 1, 1, maxQueryPage),
			PageSize:     validators.ParseQueryInt(r, "page_size", 0, 0, pagination.MaxPageSize),
		}

		page, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errMissingService())
			return
		}

		slug := chi.URLParam(r, "slug")

		viewerID := uuid.Nil
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			viewerID = userID
		}

		detail, err := svc.GetProduct(r.Context(), slug, viewerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errMissingService())
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}
