package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/api/validators"
	"github.com/briankemboi/dukapos-backend/internal/salaries"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type recordSalaryPaymentRequest struct {
	WorkerID string          `json:"worker_id" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"`
	Month    int             `json:"month" validate:"required,gte=1,lte=12"`
	Year     int             `json:"year" validate:"required,gte=2000"`
}

// SalaryPaymentCreate books a salary payment against a worker.
func SalaryPaymentCreate(svc salaries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordSalaryPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		workerID, err := uuid.Parse(body.WorkerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid worker_id"))
			return
		}

		payment, err := svc.RecordPayment(r.Context(), salaries.RecordPaymentInput{
			WorkerID: workerID,
			Amount:   body.Amount,
			Month:    body.Month,
			Year:     body.Year,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// WorkerSalaryPayments lists one worker's payment history for the admin.
func WorkerSalaryPayments(svc salaries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workerID, err := parseUUIDParam(r, "workerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListForWorker(r.Context(), workerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// MySalaryPayments lists the calling worker's own payment history.
func MySalaryPayments(svc salaries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListMine(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
