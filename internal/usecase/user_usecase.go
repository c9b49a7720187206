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

// UserUseCase реализует административное управление учётными записями.
type UserUseCase struct {
	userRepo   UserRepository
	bcryptCost int
	logger     logger.Logger
}

func NewUserUC(userRepo UserRepository, bcryptCost int, logger logger.Logger) *UserUseCase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &UserUseCase{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// ListUsers возвращает все учётные записи, новые первыми.
func (u *UserUseCase) ListUsers(ctx context.Context, caller Identity) ([]UserView, error) {
	const op = "UserUseCase.ListUsers"

	if err := Allow(caller, ActionManageUsers, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}

	return views, nil
}

// GetUser возвращает учётную запись по идентификатору.
func (u *UserUseCase) GetUser(ctx context.Context, caller Identity, id int64) (*UserView, error) {
	const op = "UserUseCase.GetUser"

	if err := Allow(caller, ActionManageUsers, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view := NewUserView(user)
	return &view, nil
}

// UpdateUser применяет частичное административное обновление, включая роль.
func (u *UserUseCase) UpdateUser(ctx context.Context, caller Identity, id int64, req *UpdateUserReq) (*UserView, error) {
	const op = "UserUseCase.UpdateUser"

	if err := Allow(caller, ActionManageUsers, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := u.userRepo.GetByID(ctx, id)
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
			if _, err := u.userRepo.GetByUsername(ctx, username); err == nil {
				return nil, e.Wrap(op, e.ErrUsernameTaken)
			} else if !errors.Is(err, e.ErrUserNotFound) {
				return nil, e.Wrap(op, err)
			}
		}
		patch.Username = &username
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, e.Wrap(op, e.ErrMissingFields)
		}

		if email != user.Email {
			if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
				return nil, e.Wrap(op, e.ErrEmailTaken)
			} else if !errors.Is(err, e.ErrUserNotFound) {
				return nil, e.Wrap(op, err)
			}
		}
		patch.Email = &email
	}

	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			return nil, e.Wrap(op, e.ErrStatusBadRequest)
		}
		patch.Role = &role
	}

	if req.Address != nil {
		merged := req.Address.MergeInto(user.Address)
		patch.Address = &merged
	}

	updated, err := u.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view := NewUserView(updated)
	return &view, nil
}

// ResetPassword устанавливает новый пароль без проверки старого.
func (u *UserUseCase) ResetPassword(ctx context.Context, caller Identity, id int64, newPassword string) error {
	const op = "UserUseCase.ResetPassword"

	if err := Allow(caller, ActionManageUsers, 0); err != nil {
		return e.Wrap(op, err)
	}

	if newPassword == "" {
		return e.Wrap(op, e.ErrMissingFields)
	}

	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.bcryptCost)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := u.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// DeleteUser удаляет чужую учётную запись.
// Удаление собственной запрещено, чтобы не остаться без администратора.
func (u *UserUseCase) DeleteUser(ctx context.Context, caller Identity, id int64) error {
	const op = "UserUseCase.DeleteUser"

	if err := Allow(caller, ActionManageUsers, 0); err != nil {
		return e.Wrap(op, err)
	}

	if id == caller.UserID {
		return e.Wrap(op, e.ErrSelfDelete)
	}

	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err := u.userRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
