package usecase

import (
	"context"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
)

type ProductUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListRacks(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, caller Identity, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller Identity, id int64, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller Identity, id int64) error
}

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*AuthRes, error)
	Login(ctx context.Context, req *LoginReq) (*AuthRes, error)
	CurrentUser(ctx context.Context, userID int64) (*UserView, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileReq) (*UserView, error)
	ChangePassword(ctx context.Context, userID int64, req *ChangePasswordReq) error
}

type UserUC interface {
	ListUsers(ctx context.Context, caller Identity) ([]UserView, error)
	GetUser(ctx context.Context, caller Identity, id int64) (*UserView, error)
	UpdateUser(ctx context.Context, caller Identity, id int64, req *UpdateUserReq) (*UserView, error)
	ResetPassword(ctx context.Context, caller Identity, id int64, newPassword string) error
	DeleteUser(ctx context.Context, caller Identity, id int64) error
}

type OrderUC interface {
	PlaceOrder(ctx context.Context, caller Identity, req *PlaceOrderReq) (*OrderView, error)
	ListOrders(ctx context.Context, caller Identity) ([]OrderView, error)
	GetOrder(ctx context.Context, caller Identity, id int64) (*OrderView, error)
	UpdateStatus(ctx context.Context, caller Identity, id int64, status string) (*OrderView, error)
	DeleteOrder(ctx context.Context, caller Identity, id int64) error
	Stats(ctx context.Context, caller Identity) (*OrderStats, error)
}

type ImportUC interface {
	ImportProducts(ctx context.Context, caller Identity, req *ImportReq) (*ImportReport, error)
	Template() []byte
}
