package http

import (
	"net/http"

	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// register
//
//	@Summary		Регистрация пользователя
//	@Description	Создаёт учётную запись и возвращает токен доступа
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"Данные регистрации"
//	@Success		201		{object}	authResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации или email занят"
//	@Router			/auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.authUsecase.Register(r.Context(), &usecase.RegisterReq{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warnf("Register failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newAuthResponse(res))
}

// login
//
//	@Summary	Вход по email и паролю
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Учётные данные"
//	@Success	200		{object}	authResponse
//	@Failure	401		{object}	ErrorResponse	"Неверные учётные данные"
//	@Router		/auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.authUsecase.Login(r.Context(), &usecase.LoginReq{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warnf("Login failed for %s: %s", req.Email, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newAuthResponse(res))
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.authUsecase.CurrentUser(r.Context(), caller.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newUserResponse(view))
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.authUsecase.UpdateProfile(r.Context(), caller.UserID, &usecase.UpdateProfileReq{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address.toPatch(),
	})
	if err != nil {
		h.logger.Warnf("Profile update failed for user %d: %s", caller.UserID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newUserResponse(view))
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	err = h.authUsecase.ChangePassword(r.Context(), caller.UserID, &usecase.ChangePasswordReq{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.logger.Warnf("Password change failed for user %d: %s", caller.UserID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"changed": true})
}
