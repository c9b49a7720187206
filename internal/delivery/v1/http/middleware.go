package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
)

// AuthMiddleware проверяет Bearer-токен и кладёт личность вызывающего
// в контекст запроса. Пользователь перечитывается из базы, поэтому
// смена роли или удаление учётной записи действуют сразу,
// не дожидаясь истечения токена.
type AuthMiddleware struct {
	tokens   usecase.TokenManager
	userRepo usecase.UserRepository
	logger   logger.Logger
}

func NewAuthMiddleware(tokens usecase.TokenManager, userRepo usecase.UserRepository, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			WriteError(w, e.ErrMissingToken)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			WriteError(w, e.ErrInvalidToken)
			return
		}

		claims, err := m.tokens.Verify(tokenString)
		if err != nil {
			WriteError(w, err)
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// Токен валиден, но учётной записи больше нет
			WriteError(w, e.ErrInvalidToken)
			return
		}

		caller := usecase.Identity{
			UserID: user.ID,
			Role:   user.Role,
		}

		next.ServeHTTP(w, r.WithContext(usecase.ContextWithIdentity(r.Context(), caller)))
	})
}

// callerIdentity достаёт личность, положенную RequireAuth.
func callerIdentity(r *http.Request) (usecase.Identity, error) {
	caller, ok := usecase.IdentityFromContext(r.Context())
	if !ok {
		return usecase.Identity{}, e.ErrMissingToken
	}
	return caller, nil
}
