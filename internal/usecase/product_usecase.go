package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(productRepo ProductRepository, cacheRepo CacheRepository, logger logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// ListProducts возвращает товары по комбинации предикатов поиска и сортировке.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	filter := &ProductFilter{
		Search:        strings.TrimSpace(req.Search),
		RackNo:        req.RackNo,
		MinPriceCents: req.MinPriceCents,
		MaxPriceCents: req.MaxPriceCents,
		SortBy:        req.SortBy,
		SortDesc:      req.SortOrder != "asc",
	}

	// значение "all" в фильтрах равносильно отсутствию фильтра
	if req.Category != "" && req.Category != "all" {
		filter.Category = req.Category
	}
	if req.RackNo == "all" {
		filter.RackNo = ""
	}

	if req.StockStatus != "" {
		status, ok := domain.ParseStockStatus(req.StockStatus)
		if !ok {
			return nil, e.Wrap(op, e.ErrStatusBadRequest)
		}
		filter.StockStatus = &status
	}

	products, err := p.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct возвращает товар по идентификатору через кэш (cache-aside).
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	if cached, err := p.cacheRepo.GetProduct(ctx, id); err == nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// ListCategories возвращает уникальные категории каталога.
func (p *ProductUseCase) ListCategories(ctx context.Context) ([]string, error) {
	const op = "ProductUseCase.ListCategories"

	categories, err := p.productRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// ListRacks возвращает уникальные коды стеллажей, отсортированные по возрастанию.
func (p *ProductUseCase) ListRacks(ctx context.Context) ([]string, error) {
	const op = "ProductUseCase.ListRacks"

	racks, err := p.productRepo.DistinctRacks(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return racks, nil
}

// CreateProduct добавляет новый товар в каталог.
func (p *ProductUseCase) CreateProduct(ctx context.Context, caller Identity, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := Allow(caller, ActionManageCatalog, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := validateNewProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	rackNo := strings.TrimSpace(req.RackNo)
	if rackNo == "" {
		rackNo = domain.DefaultRackNo
	}

	product, err := p.productRepo.Create(ctx, &domain.Product{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		RackNo:       rackNo,
		PriceCents:   req.PriceCents,
		Stock:        req.Stock,
		ExpiryDate:   req.ExpiryDate,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// UpdateProduct применяет частичное обновление: меняются только переданные
// поля, причём переданный ноль сохраняется (никаких truthy-проверок).
func (p *ProductUseCase) UpdateProduct(ctx context.Context, caller Identity, id int64, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := Allow(caller, ActionManageCatalog, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	if !req.Provided() {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	if req.PriceCents != nil && *req.PriceCents < 0 {
		return nil, e.Wrap(op, e.ErrInvalidPrice)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, e.Wrap(op, e.ErrInvalidStock)
	}

	product, err := p.productRepo.Update(ctx, id, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return product, nil
}

// DeleteProduct удаляет товар из каталога.
// Строки существующих заказов продолжают отображаться с зафиксированной ценой.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, caller Identity, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if err := Allow(caller, ActionManageCatalog, 0); err != nil {
		return e.Wrap(op, err)
	}

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return nil
}

// validateNewProduct проверяет обязательные поля и неотрицательность значений.
func validateNewProduct(req *CreateProductReq) error {
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Category) == "" ||
		strings.TrimSpace(req.Manufacturer) == "" {
		return e.ErrMissingFields
	}

	if req.PriceCents < 0 {
		return e.ErrInvalidPrice
	}

	if req.Stock < 0 {
		return e.ErrInvalidStock
	}

	return nil
}
