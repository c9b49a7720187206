package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase реализует регистрацию, вход и операции над собственным профилем.
type AuthUseCase struct {
	userRepo   UserRepository
	tokens     TokenManager
	bcryptCost int
	logger     logger.Logger
}

func NewAuthUC(userRepo UserRepository, tokens TokenManager, bcryptCost int, logger logger.Logger) *AuthUseCase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthUseCase{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register создаёт учётную запись и выдаёт токен доступа.
// Роль всегда user: повышение роли — только административная операция.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*AuthRes, error) {
	const op = "AuthUseCase.Register"

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	if _, err := a.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, e.Wrap(op, e.ErrEmailTaken)
	} else if !errors.Is(err, e.ErrUserNotFound) {
		return nil, e.Wrap(op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.bcryptCost)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return a.issueFor(op, user)
}

// Login проверяет учётные данные и выдаёт токен доступа.
// Неизвестный email и неверный пароль дают одинаковый ответ,
// чтобы не раскрывать существование учётной записи.
func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*AuthRes, error) {
	const op = "AuthUseCase.Login"

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	return a.issueFor(op, user)
}

// CurrentUser возвращает представление авторизованного пользователя.
func (a *AuthUseCase) CurrentUser(ctx context.Context, userID int64) (*UserView, error) {
	const op = "AuthUseCase.CurrentUser"

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view := NewUserView(user)
	return &view, nil
}

// UpdateProfile применяет частичное обновление профиля.
// Подполя адреса сливаются: непереданные сохраняют прежние значения.
func (a *AuthUseCase) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileReq) (*UserView, error) {
	const op = "AuthUseCase.UpdateProfile"

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	patch := &UserPatch{PhoneNumber: req.PhoneNumber}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, e.Wrap(op, e.ErrMissingFields)
		}

		if username != user.Username {
			if err := a.ensureUsernameFree(ctx, username); err != nil {
				return nil, e.Wrap(op, err)
			}
		}
		patch.Username = &username
	}

	if req.Address != nil {
		merged := req.Address.MergeInto(user.Address)
		patch.Address = &merged
	}

	updated, err := a.userRepo.Update(ctx, userID, patch)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view := NewUserView(updated)
	return &view, nil
}

// ChangePassword меняет пароль после проверки текущего.
func (a *AuthUseCase) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordReq) error {
	const op = "AuthUseCase.ChangePassword"

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return e.Wrap(op, e.ErrMissingFields)
	}

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return e.Wrap(op, e.ErrWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), a.bcryptCost)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := a.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (a *AuthUseCase) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := a.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return e.ErrUsernameTaken
	}
	if !errors.Is(err, e.ErrUserNotFound) {
		return err
	}

	return nil
}

func (a *AuthUseCase) issueFor(op string, user *domain.User) (*AuthRes, error) {
	token, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &AuthRes{Token: token, User: NewUserView(user)}, nil
}
