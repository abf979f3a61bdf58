package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (неверные учетные данные, невалидный токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда действие запрещено для вызывающего (роль, повторная попытка).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда срок действия токена истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, email уже занят).
	ErrConflict = errors.New("resource state conflict")
)
