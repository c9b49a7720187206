package http

import (
	"net/http"

	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
)

// UserHandler — административное управление учётными записями.
type UserHandler struct {
	userUsecase usecase.UserUC
	logger      logger.Logger
}

func NewUserHandler(userUsecase usecase.UserUC, logger logger.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger}
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	views, err := h.userUsecase.ListUsers(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]userResponse, 0, len(views))
	for i := range views {
		result = append(result, newUserResponse(&views[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrUserNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.userUsecase.GetUser(r.Context(), caller, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newUserResponse(view))
}

// updateUser
//
//	@Summary	Обновление учётной записи администратором
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID пользователя"
//	@Param		body	body		updateUserRequest	true	"Изменяемые поля, включая роль"
//	@Success	200		{object}	userResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/users/{id} [put]
func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrUserNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.userUsecase.UpdateUser(r.Context(), caller, id, &usecase.UpdateUserReq{
		Username:    req.Username,
		Email:       req.Email,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address.toPatch(),
	})
	if err != nil {
		h.logger.Warnf("Update user %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newUserResponse(view))
}

func (h *UserHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrUserNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.userUsecase.ResetPassword(r.Context(), caller, id, req.NewPassword); err != nil {
		h.logger.Warnf("Reset password for user %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"reset": true})
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrUserNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.userUsecase.DeleteUser(r.Context(), caller, id); err != nil {
		h.logger.Warnf("Delete user %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
