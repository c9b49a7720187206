package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testBcryptCost ускоряет хэширование в тестах.
const testBcryptCost = bcrypt.MinCost

func newAuthUC() (*AuthUseCase, *fakeUserRepo, *fakeTokens) {
	users := newFakeUserRepo()
	tokens := &fakeTokens{}
	return NewAuthUC(users, tokens, testBcryptCost, nopLogger{}), users, tokens
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), testBcryptCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues token", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		res, err := uc.Register(ctx, &RegisterReq{Username: "alice", Email: "Alice@Example.com ", Password: "secret"})
		require.NoError(t, err)

		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "alice", res.User.Username)
		// email нормализуется
		assert.Equal(t, "alice@example.com", res.User.Email)

		stored, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
	})

	t.Run("role is always user", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		_, err := uc.Register(ctx, &RegisterReq{Username: "alice", Email: "alice@example.com", Password: "secret"})
		require.NoError(t, err)

		stored, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, stored.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		users.add(domain.User{Username: "taken", Email: "alice@example.com"})

		_, err := uc.Register(ctx, &RegisterReq{Username: "alice", Email: "ALICE@example.com", Password: "secret"})
		assert.ErrorIs(t, err, e.ErrEmailTaken)
	})

	t.Run("missing fields", func(t *testing.T) {
		uc, _, _ := newAuthUC()
		for _, req := range []*RegisterReq{
			{Email: "a@b.c", Password: "x"},
			{Username: "a", Password: "x"},
			{Username: "a", Email: "a@b.c"},
			{Username: "  ", Email: "a@b.c", Password: "x"},
		} {
			_, err := uc.Register(ctx, req)
			assert.ErrorIs(t, err, e.ErrMissingFields)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	seed := func(users *fakeUserRepo, t *testing.T) {
		users.add(domain.User{Username: "alice", Email: "alice@example.com", Role: domain.RoleUser,
			PasswordHash: hashOf(t, "secret")})
	}

	t.Run("valid credentials", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		seed(users, t)

		res, err := uc.Login(ctx, &LoginReq{Email: " ALICE@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "alice", res.User.Username)
	})

	// неизвестный email и неверный пароль неотличимы для клиента
	t.Run("unknown email", func(t *testing.T) {
		uc, _, _ := newAuthUC()
		_, err := uc.Login(ctx, &LoginReq{Email: "ghost@example.com", Password: "secret"})
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		seed(users, t)
		_, err := uc.Login(ctx, &LoginReq{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
	})

	t.Run("blank credentials", func(t *testing.T) {
		uc, _, _ := newAuthUC()
		_, err := uc.Login(ctx, &LoginReq{})
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("merges address subfields", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		u := users.add(domain.User{Username: "alice", Email: "alice@example.com",
			Address: domain.Address{Street: "1 Main St", City: "Springfield"}})

		view, err := uc.UpdateProfile(ctx, u.ID, &UpdateProfileReq{
			Address: &AddressPatch{City: ptr("Shelbyville"), Country: ptr("US")},
		})
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", view.Address.Street) // не передан — сохранён
		assert.Equal(t, "Shelbyville", view.Address.City)
		assert.Equal(t, "US", view.Address.Country)
	})

	t.Run("changed username must be free", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		users.add(domain.User{Username: "bob", Email: "bob@example.com"})
		u := users.add(domain.User{Username: "alice", Email: "alice@example.com"})

		_, err := uc.UpdateProfile(ctx, u.ID, &UpdateProfileReq{Username: ptr("bob")})
		assert.ErrorIs(t, err, e.ErrUsernameTaken)
	})

	t.Run("own username is not a conflict", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		u := users.add(domain.User{Username: "alice", Email: "alice@example.com"})

		view, err := uc.UpdateProfile(ctx, u.ID, &UpdateProfileReq{Username: ptr("alice"), PhoneNumber: ptr("+1-202-555-0101")})
		require.NoError(t, err)
		assert.Equal(t, "+1-202-555-0101", view.PhoneNumber)
	})

	t.Run("blank username", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		u := users.add(domain.User{Username: "alice", Email: "alice@example.com"})
		_, err := uc.UpdateProfile(ctx, u.ID, &UpdateProfileReq{Username: ptr("  ")})
		assert.ErrorIs(t, err, e.ErrMissingFields)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		u := users.add(domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: hashOf(t, "old")})

		require.NoError(t, uc.ChangePassword(ctx, u.ID, &ChangePasswordReq{CurrentPassword: "old", NewPassword: "new"}))

		stored, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		uc, users, _ := newAuthUC()
		u := users.add(domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: hashOf(t, "old")})
		err := uc.ChangePassword(ctx, u.ID, &ChangePasswordReq{CurrentPassword: "bad", NewPassword: "new"})
		assert.ErrorIs(t, err, e.ErrWrongPassword)
	})

	t.Run("missing fields", func(t *testing.T) {
		uc, _, _ := newAuthUC()
		err := uc.ChangePassword(ctx, 1, &ChangePasswordReq{NewPassword: "new"})
		assert.ErrorIs(t, err, e.ErrMissingFields)
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthUC()
	u := users.add(domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})

	view, err := uc.CurrentUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, view.ID)

	_, err = uc.CurrentUser(ctx, 999)
	assert.ErrorIs(t, err, e.ErrUserNotFound)
}
