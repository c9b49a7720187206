package usecase

import (
	"context"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, filter *ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctRacks(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch *UpdateProductReq) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error

	// DecrementStock атомарно уменьшает остаток на qty только при stock >= qty.
	// Возвращает e.ErrProductNotFound либо e.ErrInsufficientStock.
	DecrementStock(ctx context.Context, id, qty int64) (*domain.Product, error)
	// RestoreStock возвращает qty на остаток; отсутствие товара не считается ошибкой.
	RestoreStock(ctx context.Context, id, qty int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, patch *UserPatch) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*OrderStats, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetProduct возвращает e.ErrCacheMiss при отсутствии ключа.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

// ImportFileRepository архивирует исходные файлы импорта в объектное хранилище.
type ImportFileRepository interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
