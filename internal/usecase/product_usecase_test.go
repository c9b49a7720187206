package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductUC() (*ProductUseCase, *fakeProductRepo, *fakeCacheRepo) {
	products := newFakeProductRepo()
	cache := newFakeCacheRepo()
	return NewProductUC(products, cache, nopLogger{}), products, cache
}

func ptr[T any](v T) *T { return &v }

func TestListProducts_FilterMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("descending by default", func(t *testing.T) {
		uc, products, _ := newProductUC()
		_, err := uc.ListProducts(ctx, &ListProductsReq{SortBy: "price"})
		require.NoError(t, err)
		assert.Equal(t, "price", products.lastFilter.SortBy)
		assert.True(t, products.lastFilter.SortDesc)
	})

	t.Run("explicit asc", func(t *testing.T) {
		uc, products, _ := newProductUC()
		_, err := uc.ListProducts(ctx, &ListProductsReq{SortOrder: "asc"})
		require.NoError(t, err)
		assert.False(t, products.lastFilter.SortDesc)
	})

	t.Run("all clears category and rack filters", func(t *testing.T) {
		uc, products, _ := newProductUC()
		_, err := uc.ListProducts(ctx, &ListProductsReq{Category: "all", RackNo: "all"})
		require.NoError(t, err)
		assert.Empty(t, products.lastFilter.Category)
		assert.Empty(t, products.lastFilter.RackNo)
	})

	t.Run("search is trimmed", func(t *testing.T) {
		uc, products, _ := newProductUC()
		_, err := uc.ListProducts(ctx, &ListProductsReq{Search: "  gloves "})
		require.NoError(t, err)
		assert.Equal(t, "gloves", products.lastFilter.Search)
	})

	t.Run("stock status is validated", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.ListProducts(ctx, &ListProductsReq{StockStatus: "plenty"})
		assert.ErrorIs(t, err, e.ErrStatusBadRequest)
	})

	t.Run("known stock status is forwarded", func(t *testing.T) {
		uc, products, _ := newProductUC()
		_, err := uc.ListProducts(ctx, &ListProductsReq{StockStatus: "low-stock"})
		require.NoError(t, err)
		require.NotNil(t, products.lastFilter.StockStatus)
		assert.Equal(t, domain.StockStatusLow, *products.lastFilter.StockStatus)
	})
}

func TestGetProduct_CacheAside(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		uc, products, cache := newProductUC()
		cached := domain.Product{ID: 7, Name: "Cached", PriceCents: 100}
		require.NoError(t, cache.SetProduct(ctx, &cached))

		got, err := uc.GetProduct(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "Cached", got.Name)
		assert.Empty(t, products.products)
	})

	t.Run("miss reads the repository and fills the cache in background", func(t *testing.T) {
		uc, products, cache := newProductUC()
		p := products.add(domain.Product{Name: "Paracetamol", PriceCents: 499, Stock: 10})

		got, err := uc.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		require.Eventually(t, func() bool {
			_, err := cache.GetProduct(ctx, p.ID)
			return err == nil
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("missing product", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.GetProduct(ctx, 999)
		assert.ErrorIs(t, err, e.ErrProductNotFound)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	admin := Identity{UserID: 1, Role: domain.RoleAdmin}

	valid := func() *CreateProductReq {
		return &CreateProductReq{
			Name:         "Paracetamol 500mg",
			Description:  "Analgesic tablets",
			Category:     "Analgesics",
			Manufacturer: "Medipharm",
			PriceCents:   499,
			Stock:        120,
		}
	}

	t.Run("defaults rack to A1", func(t *testing.T) {
		uc, _, _ := newProductUC()
		created, err := uc.CreateProduct(ctx, admin, valid())
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRackNo, created.RackNo)
	})

	t.Run("zero stock is allowed", func(t *testing.T) {
		uc, _, _ := newProductUC()
		req := valid()
		req.Stock = 0
		created, err := uc.CreateProduct(ctx, admin, req)
		require.NoError(t, err)
		assert.Equal(t, int64(0), created.Stock)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*CreateProductReq)
			want   error
		}{
			{"blank name", func(r *CreateProductReq) { r.Name = "   " }, e.ErrMissingFields},
			{"blank description", func(r *CreateProductReq) { r.Description = "" }, e.ErrMissingFields},
			{"blank category", func(r *CreateProductReq) { r.Category = "" }, e.ErrMissingFields},
			{"blank manufacturer", func(r *CreateProductReq) { r.Manufacturer = "" }, e.ErrMissingFields},
			{"negative price", func(r *CreateProductReq) { r.PriceCents = -1 }, e.ErrInvalidPrice},
			{"negative stock", func(r *CreateProductReq) { r.Stock = -5 }, e.ErrInvalidStock},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				uc, _, _ := newProductUC()
				req := valid()
				tc.mutate(req)
				_, err := uc.CreateProduct(ctx, admin, req)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.CreateProduct(ctx, Identity{UserID: 2, Role: domain.RoleUser}, valid())
		assert.ErrorIs(t, err, e.ErrNotAuthorized)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	admin := Identity{UserID: 1, Role: domain.RoleAdmin}

	t.Run("empty patch", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.UpdateProduct(ctx, admin, 1, &UpdateProductReq{})
		assert.ErrorIs(t, err, e.ErrMissingFields)
	})

	t.Run("explicit zero stock is stored", func(t *testing.T) {
		uc, products, _ := newProductUC()
		p := products.add(domain.Product{Name: "Paracetamol", PriceCents: 499, Stock: 10})

		updated, err := uc.UpdateProduct(ctx, admin, p.ID, &UpdateProductReq{Stock: ptr(int64(0))})
		require.NoError(t, err)
		assert.Equal(t, int64(0), updated.Stock)
		assert.Equal(t, "Paracetamol", updated.Name)
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.UpdateProduct(ctx, admin, 1, &UpdateProductReq{PriceCents: ptr(int64(-1))})
		assert.ErrorIs(t, err, e.ErrInvalidPrice)
		_, err = uc.UpdateProduct(ctx, admin, 1, &UpdateProductReq{Stock: ptr(int64(-1))})
		assert.ErrorIs(t, err, e.ErrInvalidStock)
	})

	t.Run("invalidates the cache entry", func(t *testing.T) {
		uc, products, cache := newProductUC()
		p := products.add(domain.Product{Name: "Paracetamol", PriceCents: 499, Stock: 10})
		require.NoError(t, cache.SetProduct(ctx, p))

		_, err := uc.UpdateProduct(ctx, admin, p.ID, &UpdateProductReq{PriceCents: ptr(int64(599))})
		require.NoError(t, err)
		assert.Equal(t, []int64{p.ID}, cache.deletedIDs())
	})

	t.Run("missing product", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.UpdateProduct(ctx, admin, 999, &UpdateProductReq{Name: ptr("x")})
		assert.ErrorIs(t, err, e.ErrProductNotFound)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		uc, _, _ := newProductUC()
		_, err := uc.UpdateProduct(ctx, Identity{UserID: 2, Role: domain.RoleUser}, 1, &UpdateProductReq{Name: ptr("x")})
		assert.ErrorIs(t, err, e.ErrNotAuthorized)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	admin := Identity{UserID: 1, Role: domain.RoleAdmin}

	t.Run("deletes and invalidates cache", func(t *testing.T) {
		uc, products, cache := newProductUC()
		p := products.add(domain.Product{Name: "Paracetamol", PriceCents: 499, Stock: 10})
		require.NoError(t, cache.SetProduct(ctx, p))

		require.NoError(t, uc.DeleteProduct(ctx, admin, p.ID))
		assert.Equal(t, []int64{p.ID}, cache.deletedIDs())
		_, err := products.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, e.ErrProductNotFound)
	})

	t.Run("missing product", func(t *testing.T) {
		uc, _, _ := newProductUC()
		assert.ErrorIs(t, uc.DeleteProduct(ctx, admin, 999), e.ErrProductNotFound)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		uc, _, _ := newProductUC()
		assert.ErrorIs(t, uc.DeleteProduct(ctx, Identity{UserID: 2, Role: domain.RoleUser}, 1), e.ErrNotAuthorized)
	})
}

func TestListCategoriesAndRacks(t *testing.T) {
	ctx := context.Background()
	uc, products, _ := newProductUC()
	products.add(domain.Product{Name: "A", Category: "Analgesics", RackNo: "B2"})
	products.add(domain.Product{Name: "B", Category: "Devices", RackNo: "A1"})
	products.add(domain.Product{Name: "C", Category: "Analgesics", RackNo: "A1"})

	categories, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analgesics", "Devices"}, categories)

	racks, err := uc.ListRacks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2"}, racks)
}
