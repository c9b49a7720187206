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

const userColumns = `id, username, email, password_hash, role, phone_number, street, city, state, zip_code, country, created_at, updated_at`

// UserRepo реализует репозиторий учётных записей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

func (u *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, phone_number, street, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	model := u.conv.ToModel(user)
	created, err := scanUser(db(ctx, u.pool).QueryRow(ctx, query,
		model.Username, model.Email, model.PasswordHash, model.Role, model.PhoneNumber,
		model.Street, model.City, model.State, model.ZipCode, model.Country,
	))
	if err != nil {
		return nil, mapUserUnique(err)
	}

	return u.conv.ToEntity(created), nil
}

func (u *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return u.getBy(ctx, "id = $1", id)
}

func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.getBy(ctx, "email = $1", email)
}

func (u *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.getBy(ctx, "username = $1", username)
}

func (u *UserRepo) getBy(ctx context.Context, cond string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + cond

	model, err := scanUser(db(ctx, u.pool).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(model), nil
}

// List возвращает все учётные записи, новые первыми.
func (u *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`

	rows, err := db(ctx, u.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.User, 0)
	for rows.Next() {
		model, err := scanUser(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *u.conv.ToEntity(model))
	}

	return result, rows.Err()
}

// Update собирает SET только из переданных полей.
// Адрес в патче уже слит целиком, пишется всеми колонками сразу.
func (u *UserRepo) Update(ctx context.Context, id int64, patch *usecase.UserPatch) (*domain.User, error) {
	var (
		sets []string
		args []any
	)

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Username != nil {
		set("username", *patch.Username)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Role != nil {
		set("role", string(*patch.Role))
	}
	if patch.PhoneNumber != nil {
		set("phone_number", *patch.PhoneNumber)
	}
	if patch.Address != nil {
		set("street", patch.Address.Street)
		set("city", patch.Address.City)
		set("state", patch.Address.State)
		set("zip_code", patch.Address.ZipCode)
		set("country", patch.Address.Country)
	}

	if len(sets) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args),
	)

	model, err := scanUser(db(ctx, u.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, mapUserUnique(err)
	}

	return u.conv.ToEntity(model), nil
}

func (u *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, u.pool).Exec(ctx, query, id, passwordHash)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

func (u *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := db(ctx, u.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

// mapUserUnique переводит нарушение уникальности в доменную ошибку.
// Дубликаты ловятся и валидацией в usecase, но под гонкой решает констрейнт.
func mapUserUnique(err error) error {
	if constraint, ok := duplicateConstraint(err); ok {
		switch constraint {
		case "users_email_key":
			return e.Wrap(whereami.WhereAmI(), e.ErrEmailTaken)
		case "users_username_key":
			return e.Wrap(whereami.WhereAmI(), e.ErrUsernameTaken)
		}
	}
	return e.Wrap(whereami.WhereAmI(), err)
}

func scanUser(row pgx.Row) (*converter.UserModel, error) {
	var model converter.UserModel
	err := row.Scan(
		&model.ID, &model.Username, &model.Email, &model.PasswordHash,
		&model.Role, &model.PhoneNumber, &model.Street, &model.City,
		&model.State, &model.ZipCode, &model.Country,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
