package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
)

const orderColumns = `id, user_id, total, status, ship_street, ship_city, ship_state, ship_zip_code, ship_country, created_at, updated_at`

// itemColumns читает название товара через LEFT JOIN: товар мог быть
// удалён после оформления, тогда подставляется '[deleted]'.
const itemColumns = `
	i.order_id, i.product_id, i.quantity, i.unit_price,
	COALESCE(p.name, '[deleted]') AS product_name
`

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет заказ вместе со строками. Вызывается внутри транзакции
// оформления, так что заказ и списание остатков фиксируются атомарно.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (user_id, total, status, ship_street, ship_city, ship_state, ship_zip_code, ship_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + orderColumns

	model := o.conv.ToModel(order)
	created, err := scanOrder(db(ctx, o.pool).QueryRow(ctx, query,
		model.UserID, model.Total, model.Status,
		model.Street, model.City, model.State, model.ZipCode, model.Country,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range order.Items {
		_, err := db(ctx, o.pool).Exec(ctx, itemQuery, created.ID, item.ProductID, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	result := o.conv.ToEntity(created)
	result.Items = order.Items

	return result, nil
}

func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	model, err := scanOrder(db(ctx, o.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := o.conv.ToEntity(model)
	items, err := o.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	order.Items = items[order.ID]

	return order, nil
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (o *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return o.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

// ListAll возвращает все заказы, новые первыми.
func (o *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return o.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (o *OrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := db(ctx, o.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		orders = append(orders, *o.conv.ToEntity(model))
		ids = append(ids, model.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := o.loadItems(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// loadItems загружает строки сразу для пачки заказов одним запросом.
func (o *OrderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.order_id, i.product_id
	`

	rows, err := db(ctx, o.pool).Query(ctx, query, orderIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var model converter.OrderItemModel
		err := rows.Scan(&model.OrderID, &model.ProductID, &model.Quantity, &model.UnitPrice, &model.ProductName)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[model.OrderID] = append(result[model.OrderID], o.conv.ItemToEntity(&model))
	}

	return result, rows.Err()
}

func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, o.pool).Exec(ctx, query, id, string(status))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	return nil
}

// Delete удаляет заказ; строки уходят каскадом по внешнему ключу.
func (o *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := db(ctx, o.pool).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	return nil
}

// Stats считает сводку одним проходом по таблице.
// В выручку входят только завершённые и отправленные заказы.
func (o *OrderRepo) Stats(ctx context.Context) (*usecase.OrderStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'shipped'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(total) FILTER (WHERE status IN ('completed', 'shipped')), 0)
		FROM orders
	`

	var stats usecase.OrderStats
	err := db(ctx, o.pool).QueryRow(ctx, query).Scan(
		&stats.TotalOrders, &stats.Pending, &stats.Processing,
		&stats.Shipped, &stats.Completed, &stats.Cancelled,
		&stats.TotalRevenueCents,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}

func scanOrder(row pgx.Row) (*converter.OrderModel, error) {
	var model converter.OrderModel
	err := row.Scan(
		&model.ID, &model.UserID, &model.Total, &model.Status,
		&model.Street, &model.City, &model.State, &model.ZipCode, &model.Country,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
