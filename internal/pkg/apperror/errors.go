package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeStateConflict     ErrorCode = "STATE_CONFLICT"
	ErrCodeExpired           ErrorCode = "OFFER_EXPIRED"
	ErrCodeNotYetExpired     ErrorCode = "NOT_YET_EXPIRED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал с заготовленными значениями.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && e.Message == other.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case ErrCodeStateConflict:
		return http.StatusConflict
	case ErrCodeExpired:
		return http.StatusGone
	case ErrCodeNotYetExpired:
		return http.StatusTooEarly
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func hasCode(err error, codes ...ErrorCode) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	for _, code := range codes {
		if appErr.Code == code {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidation - ошибка во входных данных: исправьте запрос.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation, ErrCodeBadRequest, ErrCodeInsufficientFunds)
}

// IsState - запись не в том состоянии (повторный ответ, уже существует).
func IsState(err error) bool {
	return hasCode(err, ErrCodeStateConflict)
}

// IsTemporal - операция вне временного окна.
func IsTemporal(err error) bool {
	return hasCode(err, ErrCodeExpired, ErrCodeNotYetExpired)
}

// IsAuthorization - неверная роль подписанта или подложный адрес.
func IsAuthorization(err error) bool {
	return hasCode(err, ErrCodeUnauthorized, ErrCodeForbidden)
}

var (
	ErrOfferNotFound      = New(ErrCodeNotFound, "предложение не найдено")
	ErrProfileNotFound    = New(ErrCodeNotFound, "профиль не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверная подпись")
	ErrInsufficientFunds  = New(ErrCodeInsufficientFunds, "недостаточно средств на балансе")
	ErrOfferNotPending    = New(ErrCodeStateConflict, "предложение уже обработано")
	ErrOfferExists        = New(ErrCodeStateConflict, "предложение для этой пары уже существует")
	ErrOfferExpired       = New(ErrCodeExpired, "срок действия предложения истёк")
	ErrOfferNotExpired    = New(ErrCodeNotYetExpired, "срок действия предложения ещё не истёк")
	ErrAddressMismatch    = New(ErrCodeForbidden, "адрес записи не совпадает с вычисленным")
)
