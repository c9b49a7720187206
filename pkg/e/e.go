package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями и кэшем
	ErrTransactionNotFound = fmt.Errorf("transaction not found")
	ErrCacheMiss           = fmt.Errorf("cache miss")

	// 400 Bad Request
	ErrMissingFields      = fmt.Errorf("required fields are missing")
	ErrInvalidPrice       = fmt.Errorf("invalid price")
	ErrPricePrecision     = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidStock       = fmt.Errorf("stock must be a non-negative integer")
	ErrInvalidQuantity    = fmt.Errorf("quantity must be at least 1")
	ErrEmptyCart          = fmt.Errorf("order must contain at least one item")
	ErrInsufficientStock  = fmt.Errorf("insufficient stock")
	ErrAddressRequired    = fmt.Errorf("please complete your address before placing an order")
	ErrInvalidStatus      = fmt.Errorf("invalid status value")
	ErrOrderFinalized     = fmt.Errorf("order is in a terminal status")
	ErrEmailTaken         = fmt.Errorf("user already exists")
	ErrUsernameTaken      = fmt.Errorf("username already taken")
	ErrSelfDelete         = fmt.Errorf("cannot delete your own account")
	ErrWrongPassword      = fmt.Errorf("current password is incorrect")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrExpectedMultipart  = fmt.Errorf("expected multipart/form-data")
	ErrFileTooLarge       = fmt.Errorf("file too large")
	ErrEmptyImportFile    = fmt.Errorf("import file contains no data rows")
	ErrStatusBadRequest   = fmt.Errorf("bad request")

	// 401 Unauthorized
	ErrMissingToken = fmt.Errorf("no token, authorization denied")
	ErrInvalidToken = fmt.Errorf("token is not valid")

	// 403 Forbidden
	ErrNotAuthorized = fmt.Errorf("not authorized")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
