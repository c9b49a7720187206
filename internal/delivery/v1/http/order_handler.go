package http

import (
	"net/http"

	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// placeOrder
//
//	@Summary		Оформление заказа
//	@Description	Списывает остатки и создаёт заказ одной транзакцией
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		placeOrderRequest	true	"Корзина"
//	@Success		201		{object}	orderResponse
//	@Failure		400		{object}	ErrorResponse	"Пустая корзина, нехватка остатков или неполный адрес"
//	@Router			/orders [post]
func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	lines := make([]usecase.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, usecase.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	view, err := h.orderUsecase.PlaceOrder(r.Context(), caller, &usecase.PlaceOrderReq{Items: lines})
	if err != nil {
		h.logger.Warnf("Place order failed for user %d: %s", caller.UserID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newOrderResponse(view))
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	views, err := h.orderUsecase.ListOrders(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderListResponse(views))
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrOrderNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.orderUsecase.GetOrder(r.Context(), caller, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderResponse(view))
}

// updateStatus
//
//	@Summary	Смена статуса заказа
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID заказа"
//	@Param		body	body		updateStatusRequest	true	"Новый статус"
//	@Success	200		{object}	orderResponse
//	@Failure	400		{object}	ErrorResponse	"Недопустимый статус или заказ уже завершён"
//	@Router		/orders/{id}/status [put]
func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrOrderNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.orderUsecase.UpdateStatus(r.Context(), caller, id, req.Status)
	if err != nil {
		h.logger.Warnf("Update status of order %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderResponse(view))
}

func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := parseID(r, e.ErrOrderNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.orderUsecase.DeleteOrder(r.Context(), caller, id); err != nil {
		h.logger.Warnf("Delete order %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *OrderHandler) stats(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	stats, err := h.orderUsecase.Stats(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newStatsResponse(stats))
}
