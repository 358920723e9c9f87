package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/api/validators"
	"github.com/briankemboi/dukapos-backend/internal/sales"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type saleLineRequest struct {
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	Quantity     int             `json:"quantity" validate:"required,gte=1"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type recordSaleRequest struct {
	Lines         []saleLineRequest `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash mpesa"`
}

// SaleRecord persists a whole cart in one transaction.
func SaleRecord(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordSaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method"))
			return
		}

		input := sales.RecordSaleInput{PaymentMethod: method}
		for _, line := range body.Lines {
			productID, parseErr := uuid.Parse(line.ProductID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product_id"))
				return
			}
			input.Lines = append(input.Lines, sales.SaleLineInput{
				ProductID:    productID,
				Quantity:     line.Quantity,
				SellingPrice: line.SellingPrice,
			})
		}

		result, err := svc.Record(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MySales pages through the calling worker's own sales.
func MySales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.ListMine(r.Context(), parsePagination(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminSales pages through every sale in the tenant, with optional
// worker and shop filters.
func AdminSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workerID, err := parseOptionalUUIDQuery(r, "worker_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shopID, err := parseOptionalUUIDQuery(r, "shop_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForOwner(r.Context(), sales.ListFilters{
			WorkerID: workerID,
			ShopID:   shopID,
		}, parsePagination(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
