package service

import (
	"fmt"

	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// Ошибки сервисов; каждая оборачивает общий sentinel из apperrors
var (
	// ErrInvalidCredentials одинакова для неизвестного email и неверного пароля
	ErrInvalidCredentials = fmt.Errorf("%w: Invalid credentials", apperrors.ErrUnauthorized)
	ErrSamePassword       = fmt.Errorf("%w: New password cannot be the same as the old password", apperrors.ErrUnauthorized)
	ErrAlreadyAttempted   = fmt.Errorf("%w: You can only attempt a quiz once", apperrors.ErrForbidden)
	ErrNotAccountOwner    = fmt.Errorf("%w: you can only modify your own account", apperrors.ErrForbidden)
)
