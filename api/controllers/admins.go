package controllers

import (
	"net/http"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/api/validators"
	"github.com/briankemboi/dukapos-backend/internal/users"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type createAdminRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Password string  `json:"password" validate:"required,min=8"`
}

// AdminCreate provisions an admin account. Developer-only surface.
func AdminCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		admin, err := svc.CreateAdmin(r.Context(), users.CreateAdminInput{
			Email:    body.Email,
			Name:     body.Name,
			Phone:    body.Phone,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, admin)
	}
}

func AdminList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListAdmins(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func AdminDeactivate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "adminId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateAdmin(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
