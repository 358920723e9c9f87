package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/api/validators"
	"github.com/briankemboi/dukapos-backend/internal/expenses"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type createExpenseRequestRequest struct {
	Description string          `json:"description" validate:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

type expenseDecisionRequest struct {
	Approve bool `json:"approve"`
}

type recordExpenseRequest struct {
	ShopID      string          `json:"shop_id" validate:"required,uuid"`
	Category    string          `json:"category" validate:"required,min=1,max=120"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExpenseRequestCreate files a worker's pending spend request.
func ExpenseRequestCreate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createExpenseRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.CreateRequest(r.Context(), expenses.CreateRequestInput{
			Description: body.Description,
			Amount:      body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// MyExpenseRequests lists the calling worker's requests.
func MyExpenseRequests(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListMyRequests(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AdminExpenseRequests lists tenant requests with an optional status filter.
func AdminExpenseRequests(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.ExpenseStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseExpenseStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}

		rows, err := svc.ListRequests(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ExpenseRequestDecision approves or rejects a pending request.
func ExpenseRequestDecision(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body expenseDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.DecideRequest(r.Context(), id, body.Approve)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// ExpenseRecord books a directly paid expense against a shop.
func ExpenseRecord(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordExpenseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopID, err := uuid.Parse(body.ShopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop_id"))
			return
		}

		expense, err := svc.RecordExpense(r.Context(), expenses.RecordExpenseInput{
			ShopID:      shopID,
			Category:    body.Category,
			Description: body.Description,
			Amount:      body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ExpenseList returns the tenant's recorded expenses.
func ExpenseList(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := parseOptionalUUIDQuery(r, "shop_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListExpenses(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ExpenseDelete removes a recorded expense.
func ExpenseDelete(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "expenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteExpense(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
