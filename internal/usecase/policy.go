package usecase

import (
	"context"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
)

// Identity — проверенная личность вызывающего, привязанная к запросу.
// Передаётся явно, никакого глобального состояния сессии.
type Identity struct {
	UserID int64
	Role   domain.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

type identityKey struct{}

// ContextWithIdentity кладёт личность вызывающего в контекст запроса.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext извлекает личность вызывающего из контекста.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Action — действие, запрашиваемое вызывающим.
type Action string

const (
	ActionManageCatalog Action = "catalog:manage"
	ActionManageUsers   Action = "users:manage"
	ActionManageOrders  Action = "orders:manage"
	ActionViewStats     Action = "orders:stats"
	ActionReadOrder     Action = "orders:read"
)

// Allow — единая точка авторизации: (роль вызывающего, действие, владелец ресурса).
// Администратору разрешено всё; владельцу — чтение собственных заказов.
// ownerID равный нулю означает действие без владельца.
func Allow(caller Identity, action Action, ownerID int64) error {
	if caller.IsAdmin() {
		return nil
	}

	if action == ActionReadOrder && ownerID != 0 && caller.UserID == ownerID {
		return nil
	}

	return e.ErrNotAuthorized
}
