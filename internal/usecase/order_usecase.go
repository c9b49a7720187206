package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
	"github.com/google/uuid"
)

// OrderUseCase реализует оформление заказов, жизненный цикл статусов
// и восстановление остатков при отмене.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	userRepo    UserRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	tx          Transactor
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	tx Transactor,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		tx:          tx,
		logger:      logger,
	}
}

// orderEventPayload — тело события заказа для outbox.
type orderEventPayload struct {
	EventID    string `json:"event_id"`
	OrderID    int64  `json:"order_id"`
	UserID     int64  `json:"user_id"`
	TotalCents int64  `json:"total_cents"`
	Status     string `json:"status"`
	PrevStatus string `json:"prev_status,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}

// PlaceOrder оформляет заказ по корзине вызывающего.
//
// Весь критический путь выполняется в одной транзакции: условное атомарное
// списание остатка по каждой строке (stock >= qty, иначе отказ), фиксация
// цены на момент оформления, накопление итога, запись заказа со снапшотом
// адреса и событие order.created в outbox. Любая ошибка откатывает всё —
// частично списанных остатков не остаётся.
func (o *OrderUseCase) PlaceOrder(ctx context.Context, caller Identity, req *PlaceOrderReq) (*OrderView, error) {
	const op = "OrderUseCase.PlaceOrder"

	if len(req.Items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	// Повторные строки одного товара складываются: заказ хранит
	// одну строку на товар.
	lines := make([]CartLine, 0, len(req.Items))
	index := make(map[int64]int, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, e.Wrap(op, e.ErrInvalidQuantity)
		}
		if i, ok := index[line.ProductID]; ok {
			lines[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(lines)
		lines = append(lines, line)
	}

	user, err := o.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Без полного адреса оформление недоступно: клиент получает
	// отдельный сигнал requiresAddress и уводит на заполнение профиля.
	if !user.Address.Complete() {
		return nil, e.Wrap(op, e.ErrAddressRequired)
	}

	var created *domain.Order
	err = o.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		items := make([]domain.OrderItem, 0, len(lines))
		var total int64

		for _, line := range lines {
			product, err := o.productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}

			items = append(items, domain.OrderItem{
				ProductID:      product.ID,
				Quantity:       line.Quantity,
				UnitPriceCents: product.PriceCents,
			})
			total += product.PriceCents * line.Quantity
		}

		created, err = o.orderRepo.Create(ctx, &domain.Order{
			UserID:          user.ID,
			Items:           items,
			TotalCents:      total,
			ShippingAddress: user.Address,
			Status:          domain.StatusPending,
		})
		if err != nil {
			return err
		}

		return o.emitEvent(ctx, EventOrderCreated, created, "")
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.invalidateProducts(ctx, op, created.Items)

	view, err := o.buildView(ctx, created.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// ListOrders возвращает заказы вызывающего; администратору — все.
func (o *OrderUseCase) ListOrders(ctx context.Context, caller Identity) ([]OrderView, error) {
	const op = "OrderUseCase.ListOrders"

	var (
		orders []domain.Order
		err    error
	)
	if caller.IsAdmin() {
		orders, err = o.orderRepo.ListAll(ctx)
	} else {
		orders, err = o.orderRepo.ListByUser(ctx, caller.UserID)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	users := make(map[int64]*UserView)
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *o.composeView(ctx, &orders[i], users))
	}

	return views, nil
}

// GetOrder возвращает заказ по идентификатору.
// Не-администратор видит только собственные заказы; чужой заказ — это
// отказ в доступе, а не «не найдено».
func (o *OrderUseCase) GetOrder(ctx context.Context, caller Identity, id int64) (*OrderView, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := Allow(caller, ActionReadOrder, order.UserID); err != nil {
		return nil, e.Wrap(op, err)
	}

	users := make(map[int64]*UserView)
	return o.composeView(ctx, order, users), nil
}

// UpdateStatus переводит заказ в новый статус.
//
// Переход в cancelled из любого неотменённого состояния возвращает
// количества всех строк на остатки ещё существующих товаров; переходы
// между прочими статусами остатков не касаются. Из конечного статуса
// переходы запрещены, поэтому повторная отмена не задвоит остатки.
func (o *OrderUseCase) UpdateStatus(ctx context.Context, caller Identity, id int64, status string) (*OrderView, error) {
	const op = "OrderUseCase.UpdateStatus"

	if err := Allow(caller, ActionManageOrders, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	target, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, e.Wrap(op, e.ErrInvalidStatus)
	}

	var restored []domain.OrderItem
	err := o.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := o.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !order.Status.CanTransitionTo(target) {
			if order.Status.Terminal() {
				return e.ErrOrderFinalized
			}
			return e.ErrInvalidStatus
		}

		if target == domain.StatusCancelled {
			if err := o.restoreStock(ctx, order.Items); err != nil {
				return err
			}
			restored = order.Items
		}

		if err := o.orderRepo.UpdateStatus(ctx, id, target); err != nil {
			return err
		}

		prev := order.Status
		order.Status = target
		return o.emitEvent(ctx, EventOrderStatusChanged, order, string(prev))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.invalidateProducts(ctx, op, restored)

	view, err := o.buildView(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// DeleteOrder удаляет заказ.
// Остатки восстанавливаются ровно один раз: для уже отменённого заказа
// они были возвращены при отмене и повторно не начисляются.
func (o *OrderUseCase) DeleteOrder(ctx context.Context, caller Identity, id int64) error {
	const op = "OrderUseCase.DeleteOrder"

	if err := Allow(caller, ActionManageOrders, 0); err != nil {
		return e.Wrap(op, err)
	}

	var restored []domain.OrderItem
	err := o.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := o.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if order.Status != domain.StatusCancelled {
			if err := o.restoreStock(ctx, order.Items); err != nil {
				return err
			}
			restored = order.Items
		}

		if err := o.orderRepo.Delete(ctx, id); err != nil {
			return err
		}

		return o.emitEvent(ctx, EventOrderDeleted, order, string(order.Status))
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	o.invalidateProducts(ctx, op, restored)

	return nil
}

// Stats возвращает административную сводку: количества по статусам и
// выручку по заказам в статусах completed и shipped.
func (o *OrderUseCase) Stats(ctx context.Context, caller Identity) (*OrderStats, error) {
	const op = "OrderUseCase.Stats"

	if err := Allow(caller, ActionViewStats, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	stats, err := o.orderRepo.Stats(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}

// restoreStock возвращает количества строк на остатки.
// Удалённые к этому моменту товары пропускаются.
func (o *OrderUseCase) restoreStock(ctx context.Context, items []domain.OrderItem) error {
	for _, item := range items {
		if err := o.productRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// emitEvent пишет событие заказа в outbox в рамках текущей транзакции.
func (o *OrderUseCase) emitEvent(ctx context.Context, eventType string, order *domain.Order, prevStatus string) error {
	eventID := uuid.NewString()

	payload, err := json.Marshal(orderEventPayload{
		EventID:    eventID,
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
		PrevStatus: prevStatus,
		OccurredAt: time.Now().UnixNano(),
	})
	if err != nil {
		return err
	}

	_, err = o.outboxRepo.Create(ctx, NewOutboxEvent(eventID, eventType, order.ID, payload))
	return err
}

// invalidateProducts сбрасывает кэш товаров, чьи остатки изменились.
func (o *OrderUseCase) invalidateProducts(ctx context.Context, op string, items []domain.OrderItem) {
	if len(items) == 0 {
		return
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	if err := o.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		o.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}
}

// buildView перечитывает заказ и собирает денормализованное представление.
func (o *OrderUseCase) buildView(ctx context.Context, id int64) (*OrderView, error) {
	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	users := make(map[int64]*UserView)
	return o.composeView(ctx, order, users), nil
}

// composeView раскрывает ссылку на пользователя; users — кэш на время запроса.
func (o *OrderUseCase) composeView(ctx context.Context, order *domain.Order, users map[int64]*UserView) *OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.ProductName
		if name == "" {
			name = domain.DeletedProductName
		}
		items = append(items, OrderItemView{
			ProductID:      item.ProductID,
			ProductName:    name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	userView, ok := users[order.UserID]
	if !ok {
		if user, err := o.userRepo.GetByID(ctx, order.UserID); err == nil {
			v := NewUserView(user)
			userView = &v
		}
		users[order.UserID] = userView
	}

	return &OrderView{
		ID:              order.ID,
		UserID:          order.UserID,
		User:            userView,
		Items:           items,
		TotalCents:      order.TotalCents,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
