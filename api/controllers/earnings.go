package controllers

import (
	"net/http"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/internal/earnings"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

// MyEarnings returns the calling worker's earnings summary.
func MyEarnings(svc earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.MySummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// WorkerEarnings returns one worker's earnings summary for the admin.
func WorkerEarnings(svc earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workerID, err := parseUUIDParam(r, "workerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.SummaryForWorker(r.Context(), workerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AdminDashboard aggregates sales, profit and inventory counters for the tenant.
func AdminDashboard(svc earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
