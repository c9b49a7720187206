package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/money"
)

// ЗАПРОСЫ

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addressPayload struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
	Country *string `json:"country"`
}

func (a *addressPayload) toPatch() *usecase.AddressPatch {
	if a == nil {
		return nil
	}
	return &usecase.AddressPatch{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

type updateProfileRequest struct {
	Username    *string         `json:"username"`
	PhoneNumber *string         `json:"phone_number"`
	Address     *addressPayload `json:"address"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Цена приходит числом и разбирается через money.ParseCents,
// чтобы не терять точность на float64.
type createProductRequest struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Manufacturer string      `json:"manufacturer"`
	RackNo       string      `json:"rack_no"`
	Price        json.Number `json:"price"`
	Stock        int64       `json:"stock"`
	ExpiryDate   *string     `json:"expiry_date"`
}

type updateProductRequest struct {
	Name         *string      `json:"name"`
	Description  *string      `json:"description"`
	Category     *string      `json:"category"`
	Manufacturer *string      `json:"manufacturer"`
	RackNo       *string      `json:"rack_no"`
	Price        *json.Number `json:"price"`
	Stock        *int64       `json:"stock"`
	ExpiryDate   *string      `json:"expiry_date"`
}

type cartLinePayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type placeOrderRequest struct {
	Items []cartLinePayload `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateUserRequest struct {
	Username    *string         `json:"username"`
	Email       *string         `json:"email"`
	Role        *string         `json:"role"`
	PhoneNumber *string         `json:"phone_number"`
	Address     *addressPayload `json:"address"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ОТВЕТЫ

type addressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

func newAddressResponse(a domain.Address) addressResponse {
	return addressResponse{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

type productResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Price        float64    `json:"price"`
	Stock        int64      `json:"stock"`
	StockStatus  string     `json:"stock_status"`
	Manufacturer string     `json:"manufacturer"`
	RackNo       string     `json:"rack_no"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func newProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        money.CentsToFloat(p.PriceCents),
		Stock:        p.Stock,
		StockStatus:  string(domain.StockStatusOf(p.Stock)),
		Manufacturer: p.Manufacturer,
		RackNo:       p.RackNo,
		ExpiryDate:   p.ExpiryDate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func newProductListResponse(products []domain.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for i := range products {
		result = append(result, newProductResponse(&products[i]))
	}
	return result
}

type userResponse struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	PhoneNumber string          `json:"phone_number"`
	Address     addressResponse `json:"address"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func newUserResponse(u *usecase.UserView) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		PhoneNumber: u.PhoneNumber,
		Address:     newAddressResponse(u.Address),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func newAuthResponse(res *usecase.AuthRes) authResponse {
	return authResponse{
		Token: res.Token,
		User:  newUserResponse(&res.User),
	}
}

type orderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"user_id"`
	User            *userResponse       `json:"user,omitempty"`
	Items           []orderItemResponse `json:"items"`
	Total           float64             `json:"total"`
	Status          string              `json:"status"`
	ShippingAddress addressResponse     `json:"shipping_address"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at,omitempty"`
}

func newOrderResponse(v *usecase.OrderView) orderResponse {
	items := make([]orderItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   money.CentsToFloat(item.UnitPriceCents),
		})
	}

	resp := orderResponse{
		ID:              v.ID,
		UserID:          v.UserID,
		Items:           items,
		Total:           money.CentsToFloat(v.TotalCents),
		Status:          string(v.Status),
		ShippingAddress: newAddressResponse(v.ShippingAddress),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if v.User != nil {
		user := newUserResponse(v.User)
		resp.User = &user
	}

	return resp
}

func newOrderListResponse(views []usecase.OrderView) []orderResponse {
	result := make([]orderResponse, 0, len(views))
	for i := range views {
		result = append(result, newOrderResponse(&views[i]))
	}
	return result
}

type statsResponse struct {
	TotalOrders  int64   `json:"total_orders"`
	Pending      int64   `json:"pending"`
	Processing   int64   `json:"processing"`
	Shipped      int64   `json:"shipped"`
	Completed    int64   `json:"completed"`
	Cancelled    int64   `json:"cancelled"`
	TotalRevenue float64 `json:"total_revenue"`
}

func newStatsResponse(s *usecase.OrderStats) statsResponse {
	return statsResponse{
		TotalOrders:  s.TotalOrders,
		Pending:      s.Pending,
		Processing:   s.Processing,
		Shipped:      s.Shipped,
		Completed:    s.Completed,
		Cancelled:    s.Cancelled,
		TotalRevenue: money.CentsToFloat(s.TotalRevenueCents),
	}
}

type rowErrorResponse struct {
	Row    int    `json:"row"`
	Raw    string `json:"raw,omitempty"`
	Reason string `json:"reason"`
}

type importReportResponse struct {
	TotalRows    int                `json:"total_rows"`
	Inserted     int                `json:"inserted"`
	Errors       int                `json:"errors"`
	ErrorDetails []rowErrorResponse `json:"error_details,omitempty"`
}

func newImportReportResponse(r *usecase.ImportReport) importReportResponse {
	details := make([]rowErrorResponse, 0, len(r.ErrorDetails))
	for _, d := range r.ErrorDetails {
		details = append(details, rowErrorResponse{Row: d.Row, Raw: d.Raw, Reason: d.Reason})
	}

	return importReportResponse{
		TotalRows:    r.TotalRows,
		Inserted:     r.Inserted,
		Errors:       r.Errors,
		ErrorDetails: details,
	}
}
