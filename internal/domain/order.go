package domain

import "time"

// OrderStatus — состояние жизненного цикла заказа.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus проверяет строковое значение статуса.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// Terminal сообщает, является ли статус конечным.
// Из конечного статуса переходы запрещены.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo проверяет допустимость перехода в target.
// Между неконечными статусами разрешены любые переходы,
// cancelled достижим из любого неконечного состояния.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	return target != s
}

// OrderItem — строка заказа. Не имеет собственного жизненного цикла:
// существует только внутри заказа.
type OrderItem struct {
	ProductID      int64
	Quantity       int64
	UnitPriceCents int64 // цена на момент оформления, не пересчитывается

	// ProductName заполняется при чтении; для удалённого товара
	// подставляется DeletedProductName.
	ProductName string
}

// DeletedProductName подставляется вместо названия товара,
// который был удалён после оформления заказа.
const DeletedProductName = "[deleted]"

// Order описывает заказ со снапшотом адреса доставки.
type Order struct {
	ID              int64
	UserID          int64 // слабая ссылка: пользователь может быть удалён
	Items           []OrderItem
	TotalCents      int64
	ShippingAddress Address
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
