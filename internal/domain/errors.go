package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"threestar/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

var (
	// ErrNoData - источник не вернул ни одного тиража, история не тронута.
	ErrNoData = NewError(errcodes.NoData, "no draws returned by source")
	// ErrFetchFailed - сеть или разбор страниц не удались после всех попыток.
	ErrFetchFailed = NewError(errcodes.FetchFailed, "fetch draws")
	// ErrSchemaMismatch - в файле истории нет колонок с цифрами.
	ErrSchemaMismatch = NewError(errcodes.SchemaMismatch, "history requires columns d1,d2,d3 (or 號碼1,號碼2,號碼3)")
)

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по коду, поэтому errors.Is(err, ErrNoData) работает
// и для обёрнутых копий.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ErrorCode нужен reply.Error для кода и текста ответа.
func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
