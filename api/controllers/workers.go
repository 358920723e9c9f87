package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/api/validators"
	"github.com/briankemboi/dukapos-backend/internal/users"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type createWorkerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Password string  `json:"password" validate:"required,min=8"`
	ShopID   string  `json:"shop_id" validate:"required,uuid"`
}

type updateWorkerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	ShopID   *string `json:"shop_id,omitempty" validate:"omitempty,uuid"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

func WorkerCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createWorkerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopID, err := uuid.Parse(body.ShopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop_id"))
			return
		}

		worker, err := svc.CreateWorker(r.Context(), users.CreateWorkerInput{
			Email:    body.Email,
			Name:     body.Name,
			Phone:    body.Phone,
			Password: body.Password,
			ShopID:   shopID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, worker)
	}
}

func WorkerList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListWorkers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func WorkerGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "workerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		worker, err := svc.GetWorker(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, worker)
	}
}

func WorkerUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "workerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateWorkerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := users.UpdateWorkerInput{
			Name:     body.Name,
			Phone:    body.Phone,
			Password: body.Password,
		}
		if body.ShopID != nil {
			shopID, parseErr := uuid.Parse(*body.ShopID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid shop_id"))
				return
			}
			input.ShopID = &shopID
		}

		worker, err := svc.UpdateWorker(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, worker)
	}
}

func WorkerDeactivate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "workerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateWorker(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
