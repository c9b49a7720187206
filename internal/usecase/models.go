package usecase

import (
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
)

// PRODUCT USECASE

// ListProductsReq — параметры поиска/фильтрации/сортировки каталога.
type ListProductsReq struct {
	Search        string
	Category      string
	RackNo        string
	StockStatus   string // in-stock | low-stock | out-of-stock | ""
	MinPriceCents *int64
	MaxPriceCents *int64
	SortBy        string
	SortOrder     string // asc | desc
}

// CreateProductReq — запрос на добавление товара.
type CreateProductReq struct {
	Name         string
	Description  string
	Category     string
	Manufacturer string
	RackNo       string
	PriceCents   int64
	Stock        int64
	ExpiryDate   *time.Time
}

// UpdateProductReq — частичное обновление товара.
// nil означает «поле не передано»; переданный ноль сохраняется как ноль.
type UpdateProductReq struct {
	Name         *string
	Description  *string
	Category     *string
	Manufacturer *string
	RackNo       *string
	PriceCents   *int64
	Stock        *int64
	ExpiryDate   *time.Time
}

// Provided сообщает, есть ли в запросе хотя бы одно поле.
func (r *UpdateProductReq) Provided() bool {
	return r.Name != nil || r.Description != nil || r.Category != nil ||
		r.Manufacturer != nil || r.RackNo != nil || r.PriceCents != nil ||
		r.Stock != nil || r.ExpiryDate != nil
}

// ProductFilter — фильтр каталога на уровне репозитория.
type ProductFilter struct {
	Search        string
	Category      string
	RackNo        string
	StockStatus   *domain.StockStatus
	MinPriceCents *int64
	MaxPriceCents *int64
	SortBy        string
	SortDesc      bool
}

// AUTH / USER USECASE

type RegisterReq struct {
	Username string
	Email    string
	Password string
}

type LoginReq struct {
	Email    string
	Password string
}

// AuthRes — токен и представление пользователя после регистрации/входа.
type AuthRes struct {
	Token string
	User  UserView
}

// UserView — представление учётной записи без хэша пароля.
type UserView struct {
	ID          int64
	Username    string
	Email       string
	Role        domain.Role
	PhoneNumber string
	Address     domain.Address
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewUserView(u *domain.User) UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AddressPatch — частичное обновление адреса: заполняются только переданные
// подполя, остальные сохраняют прежние значения.
type AddressPatch struct {
	Street  *string
	City    *string
	State   *string
	ZipCode *string
	Country *string
}

// MergeInto накладывает переданные подполя на существующий адрес.
func (p *AddressPatch) MergeInto(a domain.Address) domain.Address {
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.ZipCode != nil {
		a.ZipCode = *p.ZipCode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	return a
}

type UpdateProfileReq struct {
	Username    *string
	PhoneNumber *string
	Address     *AddressPatch
}

type ChangePasswordReq struct {
	CurrentPassword string
	NewPassword     string
}

// UpdateUserReq — административное обновление учётной записи, включая роль.
type UpdateUserReq struct {
	Username    *string
	Email       *string
	Role        *string
	PhoneNumber *string
	Address     *AddressPatch
}

// UserPatch — частичное обновление на уровне репозитория.
type UserPatch struct {
	Username    *string
	Email       *string
	Role        *domain.Role
	PhoneNumber *string
	Address     *domain.Address // уже слитый адрес целиком
}

// ORDER USECASE

// CartLine — пара (товар, количество), отправляемая при оформлении.
type CartLine struct {
	ProductID int64
	Quantity  int64
}

type PlaceOrderReq struct {
	Items []CartLine
}

// OrderItemView — строка заказа с раскрытым названием товара.
type OrderItemView struct {
	ProductID      int64
	ProductName    string
	Quantity       int64
	UnitPriceCents int64
}

// OrderView — денормализованное представление заказа для клиента.
type OrderView struct {
	ID              int64
	UserID          int64
	User            *UserView // nil, если пользователь удалён
	Items           []OrderItemView
	TotalCents      int64
	Status          domain.OrderStatus
	ShippingAddress domain.Address
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// OrderStats — административная сводка по заказам.
// Выручка учитывает только заказы в статусах completed и shipped.
type OrderStats struct {
	TotalOrders       int64
	Pending           int64
	Processing        int64
	Shipped           int64
	Completed         int64
	Cancelled         int64
	TotalRevenueCents int64
}

// IMPORT USECASE

type ImportReq struct {
	FileName string
	Data     []byte
}

// RowError — ошибка одной строки импорта.
type RowError struct {
	Row    int // номер строки данных, с единицы
	Raw    string
	Reason string
}

// ImportReport — итог пакетного импорта.
type ImportReport struct {
	TotalRows    int
	Inserted     int
	Errors       int
	ErrorDetails []RowError // не более errorPreviewLimit записей
}

// OUTBOX / EVENTS

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OutboxEvent — запись транзакционного outbox для событий заказов.
type OutboxEvent struct {
	ID        int64
	EventID   string
	EventType string
	OrderID   int64
	Payload   []byte
	Status    OutboxStatus
	CreatedAt time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventID, eventType string, orderID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   orderID,
		Payload:   payload,
		Status:    Pending,
	}
}

type WriteRawMessageReq struct {
	OrderID int64
	Payload []byte
}

func NewWriteRawMessageReq(orderID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		OrderID: orderID,
		Payload: payload,
	}
}

// TokenClaims — проверенные утверждения из токена доступа.
type TokenClaims struct {
	UserID int64
	Role   domain.Role
}
