package usecase

import (
	"context"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
)

// TokenManager выпускает и проверяет токены доступа.
type TokenManager interface {
	Issue(userID int64, role domain.Role) (string, error)
	Verify(token string) (*TokenClaims, error)
}

// MessageProducer публикует сырые события в брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// Transactor выполняет fn внутри одной транзакции базы данных.
// Контекст, передаваемый в fn, несёт открытую транзакцию для репозиториев.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
