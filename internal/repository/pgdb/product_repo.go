package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
)

const productColumns = `id, name, description, category, price, stock, manufacturer, rack_no, expiry_date, created_at, updated_at`

// sortColumns — белый список сортировок каталога: ключ запроса -> колонка.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"expiry":     "expiry_date",
	"created_at": "created_at",
}

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// searchPredicate — OR-набор полей свободного поиска: название, описание,
// производитель и код стеллажа, без учёта регистра.
func searchPredicate(ph string) string {
	return fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR manufacturer ILIKE %[1]s OR rack_no ILIKE %[1]s)", ph)
}

// orderByClause отображает ключ сортировки на колонку из белого списка.
// Неизвестный ключ сортируется по дате добавления; id в хвосте
// стабилизирует порядок при равных значениях.
func orderByClause(sortBy string, desc bool) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

// List возвращает товары по фильтру каталога. Поиск идёт по названию,
// описанию, производителю и коду стеллажа без учёта регистра.
func (p *ProductRepo) List(ctx context.Context, filter *usecase.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		conds = append(conds, searchPredicate(arg("%"+filter.Search+"%")))
	}
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("category = %s", arg(filter.Category)))
	}
	if filter.RackNo != "" {
		conds = append(conds, fmt.Sprintf("rack_no = %s", arg(filter.RackNo)))
	}
	if filter.StockStatus != nil {
		switch *filter.StockStatus {
		case domain.StockStatusIn:
			conds = append(conds, "stock > 10")
		case domain.StockStatusLow:
			conds = append(conds, "stock BETWEEN 1 AND 10")
		case domain.StockStatusOut:
			conds = append(conds, "stock = 0")
		}
	}
	if filter.MinPriceCents != nil {
		conds = append(conds, fmt.Sprintf("price >= %s", arg(*filter.MinPriceCents)))
	}
	if filter.MaxPriceCents != nil {
		conds = append(conds, fmt.Sprintf("price <= %s", arg(*filter.MaxPriceCents)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += orderByClause(filter.SortBy, filter.SortDesc)

	rows, err := db(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ToEntity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	model, err := scanProduct(db(ctx, p.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// DistinctCategories возвращает отсортированный список категорий каталога.
func (p *ProductRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, "category")
}

// DistinctRacks возвращает отсортированный список кодов стеллажей.
func (p *ProductRepo) DistinctRacks(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, "rack_no")
}

func (p *ProductRepo) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM products WHERE %[1]s <> '' ORDER BY %[1]s`, column)

	rows, err := db(ctx, p.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, value)
	}

	return result, rows.Err()
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, category, price, stock, manufacturer, rack_no, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns

	model := p.conv.ToModel(product)
	created, err := scanProduct(db(ctx, p.pool).QueryRow(ctx, query,
		model.Name, model.Description, model.Category, model.Price,
		model.Stock, model.Manufacturer, model.RackNo, model.ExpiryDate,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(created), nil
}

// Update собирает SET только из переданных полей запроса.
func (p *ProductRepo) Update(ctx context.Context, id int64, patch *usecase.UpdateProductReq) (*domain.Product, error) {
	var (
		sets []string
		args []any
	)

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Manufacturer != nil {
		set("manufacturer", *patch.Manufacturer)
	}
	if patch.RackNo != nil {
		set("rack_no", *patch.RackNo)
	}
	if patch.PriceCents != nil {
		set("price", *patch.PriceCents)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.ExpiryDate != nil {
		set("expiry_date", *patch.ExpiryDate)
	}

	if len(sets) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE products SET %s, updated_at = NOW() WHERE id = $%d RETURNING `+productColumns,
		strings.Join(sets, ", "), len(args),
	)

	model, err := scanProduct(db(ctx, p.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := db(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// DecrementStock списывает qty одним условным UPDATE: остаток меняется
// только если его хватает, поэтому при конкурентных заказах он не уходит
// в минус. Если строк не затронуто, отдельным чтением различаем
// отсутствующий товар и нехватку остатка.
func (p *ProductRepo) DecrementStock(ctx context.Context, id, qty int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING ` + productColumns

	model, err := scanProduct(db(ctx, p.pool).QueryRow(ctx, query, id, qty))
	if err == nil {
		return p.conv.ToEntity(model), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var name string
	err = db(ctx, p.pool).QueryRow(ctx, `SELECT name FROM products WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return nil, fmt.Errorf("%s: %q: %w", whereami.WhereAmI(), name, e.ErrInsufficientStock)
}

// RestoreStock возвращает qty на остаток. Товар мог быть удалён после
// оформления заказа, поэтому отсутствие строки не считается ошибкой.
func (p *ProductRepo) RestoreStock(ctx context.Context, id, qty int64) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := db(ctx, p.pool).Exec(ctx, query, id, qty); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Category,
		&model.Price, &model.Stock, &model.Manufacturer, &model.RackNo,
		&model.ExpiryDate, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
