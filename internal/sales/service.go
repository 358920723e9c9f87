package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/briankemboi/dukapos-backend/internal/products"
	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	pkgdb "github.com/briankemboi/dukapos-backend/pkg/db"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
	"github.com/briankemboi/dukapos-backend/pkg/metrics"
	"github.com/briankemboi/dukapos-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service records point-of-sale carts and lists sale history.
type Service interface {
	Record(ctx context.Context, input RecordSaleInput) (*RecordSaleResult, error)
	ListMine(ctx context.Context, page pagination.Params) (*SaleListResult, error)
	ListForOwner(ctx context.Context, filters ListFilters, page pagination.Params) (*SaleListResult, error)
}

type service struct {
	repo     *Repository
	products *products.Repository
	dbClient *pkgdb.Client
	logg     *logger.Logger
	business *metrics.BusinessMetrics
}

// NewService constructs the sale recorder.
func NewService(repo *Repository, productsRepo *products.Repository, dbClient *pkgdb.Client, logg *logger.Logger, business *metrics.BusinessMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: productsRepo,
		dbClient: dbClient,
		logg:     logg,
		business: business,
	}, nil
}

// Record persists the whole cart atomically. Every line decrements stock with
// a conditional update; a short line aborts the transaction so no partial
// carts are ever committed.
func (s *service) Record(ctx context.Context, input RecordSaleInput) (*RecordSaleResult, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok || principal.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if principal.ShopID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker shop assignment required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart cannot be empty")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if !line.SellingPrice.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling price must be positive")
		}
	}

	var persisted []models.Sale
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)
		saleRepo := s.repo.WithTx(tx)

		rows := make([]models.Sale, 0, len(input.Lines))
		for _, line := range input.Lines {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
			}

			if line.SellingPrice.LessThan(product.MinimumSellingPrice) {
				return pkgerrors.New(pkgerrors.CodeValidation, "selling price below minimum").
					WithDetails(map[string]any{
						"product_id":            product.ID,
						"minimum_selling_price": product.MinimumSellingPrice,
					})
			}

			ok, err := productRepo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				s.business.IncStockConflict()
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": product.ID,
						"product":    product.Name,
						"requested":  line.Quantity,
					})
			}

			buyingPrice := product.BuyingPrice
			if buyingPrice.IsZero() {
				s.logg.Warn(
					s.logg.WithField(ctx, "product_id", product.ID.String()),
					"product has no buying price, profit recorded against zero cost",
				)
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			rows = append(rows, models.Sale{
				ID:            uuid.New(),
				ProductID:     product.ID,
				WorkerID:      principal.UserID,
				ShopID:        *principal.ShopID,
				OwnerID:       principal.OwnerID,
				Quantity:      line.Quantity,
				SellingPrice:  line.SellingPrice,
				TotalAmount:   line.SellingPrice.Mul(qty),
				Profit:        line.SellingPrice.Sub(buyingPrice).Mul(qty),
				PaymentMethod: input.PaymentMethod,
			})
		}

		created, err := saleRepo.CreateBatch(ctx, rows)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert sales")
		}
		persisted = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record sale")
	}

	total := decimal.Zero
	for _, row := range persisted {
		total = total.Add(row.TotalAmount)
		s.business.IncSaleRecorded(row.PaymentMethod.String())
	}

	return &RecordSaleResult{
		Sales:       FromModels(persisted),
		TotalAmount: total,
	}, nil
}

// ListMine returns the calling worker's sale history.
func (s *service) ListMine(ctx context.Context, page pagination.Params) (*SaleListResult, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	workerID := principal.UserID
	return s.list(ctx, ListFilters{WorkerID: &workerID}, page)
}

// ListForOwner returns the tenant's sales with optional worker/shop filters.
func (s *service) ListForOwner(ctx context.Context, filters ListFilters, page pagination.Params) (*SaleListResult, error) {
	return s.list(ctx, filters, page)
}

func (s *service) list(ctx context.Context, filters ListFilters, page pagination.Params) (*SaleListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return &SaleListResult{
		Sales:      FromModels(rows),
		NextCursor: nextCursor,
	}, nil
}
