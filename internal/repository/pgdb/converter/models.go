package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	Description  string     `db:"description"`
	Category     string     `db:"category"`
	Price        int64      `db:"price"`
	Stock        int64      `db:"stock"`
	Manufacturer string     `db:"manufacturer"`
	RackNo       string     `db:"rack_no"`
	ExpiryDate   *time.Time `db:"expiry_date"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// UserModel представляет запись таблицы users в PostgreSQL.
// Адрес хранится плоскими колонками.
type UserModel struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	PhoneNumber  string     `db:"phone_number"`
	Street       string     `db:"street"`
	City         string     `db:"city"`
	State        string     `db:"state"`
	ZipCode      string     `db:"zip_code"`
	Country      string     `db:"country"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
// Адрес доставки — снапшот на момент оформления.
type OrderModel struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Total     int64      `db:"total"`
	Status    string     `db:"status"`
	Street    string     `db:"ship_street"`
	City      string     `db:"ship_city"`
	State     string     `db:"ship_state"`
	ZipCode   string     `db:"ship_zip_code"`
	Country   string     `db:"ship_country"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OrderItemModel представляет запись таблицы order_items в PostgreSQL.
// ProductName читается через LEFT JOIN products.
type OrderItemModel struct {
	OrderID     int64  `db:"order_id"`
	ProductID   int64  `db:"product_id"`
	Quantity    int64  `db:"quantity"`
	UnitPrice   int64  `db:"unit_price"`
	ProductName string `db:"product_name"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     int64      `db:"order_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
