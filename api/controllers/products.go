package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/api/responses"
	"github.com/briankemboi/dukapos-backend/api/validators"
	"github.com/briankemboi/dukapos-backend/internal/products"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type createProductRequest struct {
	Name                string          `json:"name" validate:"required,min=1,max=160"`
	BuyingPrice         decimal.Decimal `json:"buying_price"`
	MinimumSellingPrice decimal.Decimal `json:"minimum_selling_price"`
	Stock               int             `json:"stock" validate:"gte=0"`
	ShopID              string          `json:"shop_id" validate:"required,uuid"`
	CategoryID          *string         `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

type updateProductRequest struct {
	Name                *string          `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	BuyingPrice         *decimal.Decimal `json:"buying_price,omitempty"`
	MinimumSellingPrice *decimal.Decimal `json:"minimum_selling_price,omitempty"`
	Stock               *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryID          *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopID, err := uuid.Parse(body.ShopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop_id"))
			return
		}

		input := products.CreateProductInput{
			Name:                body.Name,
			BuyingPrice:         body.BuyingPrice,
			MinimumSellingPrice: body.MinimumSellingPrice,
			Stock:               body.Stock,
			ShopID:              shopID,
		}
		if body.CategoryID != nil {
			categoryID, parseErr := uuid.Parse(*body.CategoryID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid category_id"))
				return
			}
			input.CategoryID = &categoryID
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := parseOptionalUUIDQuery(r, "shop_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateProductInput{
			Name:                body.Name,
			BuyingPrice:         body.BuyingPrice,
			MinimumSellingPrice: body.MinimumSellingPrice,
			Stock:               body.Stock,
		}
		if body.CategoryID != nil {
			categoryID, parseErr := uuid.Parse(*body.CategoryID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid category_id"))
				return
			}
			input.CategoryID = &categoryID
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// WorkerCatalog lists the caller's shop products without buying prices.
func WorkerCatalog(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.WorkerCatalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
