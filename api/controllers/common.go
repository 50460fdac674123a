package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shopworks/storefront-backend/api/middleware"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

// maxQueryPage bounds page numbers from query strings.
const maxQueryPage = 100000

func requireUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}

func parsePathUUID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}

func errMissingService() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "service not configured")
}
