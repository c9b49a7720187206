package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
	"github.com/DRSN-tech/medstore-backend/pkg/money"
)

const expiryDateLayout = "2006-01-02"

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Каталог товаров
//	@Description	Поиск, фильтрация и сортировка каталога
//	@Tags			products
//	@Produce		json
//	@Param			search			query		string	false	"Поиск по названию, описанию, производителю и коду стеллажа"
//	@Param			category		query		string	false	"Категория"
//	@Param			rack			query		string	false	"Код стеллажа"
//	@Param			stock_status	query		string	false	"in-stock | low-stock | out-of-stock"
//	@Param			min_price		query		number	false	"Минимальная цена"
//	@Param			max_price		query		number	false	"Максимальная цена"
//	@Param			sort_by			query		string	false	"name | price | stock | expiry"
//	@Param			sort_order		query		string	false	"asc | desc"
//	@Success		200				{array}		productResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("List products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductListResponse(products))
}

func parseListQuery(r *http.Request) (*usecase.ListProductsReq, error) {
	q := r.URL.Query()

	req := &usecase.ListProductsReq{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		RackNo:      q.Get("rack"),
		StockStatus: q.Get("stock_status"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
	}

	if v := q.Get("min_price"); v != "" {
		cents, err := money.ParseCents(v)
		if err != nil {
			return nil, err
		}
		req.MinPriceCents = &cents
	}
	if v := q.Get("max_price"); v != "" {
		cents, err := money.ParseCents(v)
		if err != nil {
			return nil, err
		}
		req.MaxPriceCents = &cents
	}

	return req, nil
}

func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, e.ErrProductNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

func (p *ProductHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.productUsecase.ListCategories(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, categories)
}

func (p *ProductHandler) listRacks(w http.ResponseWriter, r *http.Request) {
	racks, err := p.productUsecase.ListRacks(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, racks)
}

// createProduct
//
//	@Summary	Добавление товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		createProductRequest	true	"Карточка товара"
//	@Success	201		{object}	productResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure	403		{object}	ErrorResponse
//	@Router		/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	priceCents, err := money.ParseCents(req.Price.String())
	if err != nil {
		WriteError(w, err)
		return
	}

	expiry, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), caller, &usecase.CreateProductReq{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		RackNo:       req.RackNo,
		PriceCents:   priceCents,
		Stock:        req.Stock,
		ExpiryDate:   expiry,
	})
	if err != nil {
		p.logger.Warnf("Create product failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newProductResponse(product))
}

func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrProductNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	patch := &usecase.UpdateProductReq{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		RackNo:       req.RackNo,
		Stock:        req.Stock,
	}

	if req.Price != nil {
		cents, err := money.ParseCents(req.Price.String())
		if err != nil {
			WriteError(w, err)
			return
		}
		patch.PriceCents = &cents
	}
	if req.ExpiryDate != nil {
		expiry, err := parseExpiryDate(req.ExpiryDate)
		if err != nil {
			WriteError(w, err)
			return
		}
		patch.ExpiryDate = expiry
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), caller, id, patch)
	if err != nil {
		p.logger.Warnf("Update product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrProductNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), caller, id); err != nil {
		p.logger.Warnf("Delete product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func parseExpiryDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := time.Parse(expiryDateLayout, *s)
	if err != nil {
		return nil, e.ErrStatusBadRequest
	}

	return &t, nil
}
