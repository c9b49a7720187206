package domain

import "time"

// Role — роль учётной записи.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole проверяет строковое значение роли.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Address — почтовый адрес пользователя. Все поля необязательны по отдельности.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// Complete сообщает, достаточно ли адреса для оформления заказа
// (требуются улица и город).
func (a Address) Complete() bool {
	return a.Street != "" && a.City != ""
}

// User описывает учётную запись.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // bcrypt-хэш, никогда не сериализуется наружу
	Role         Role
	PhoneNumber  string
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
