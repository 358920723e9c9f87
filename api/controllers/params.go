package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/pagination"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]any{name: "must be a valid uuid"})
	}
	return id, nil
}

func parseOptionalUUIDQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]any{name: "must be a valid uuid"})
	}
	return &id, nil
}

func parsePagination(r *http.Request) pagination.Params {
	params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}
	return params
}
