package repository

import (
	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	// UpdatePassword сохраняет уже захешированный пароль и помечает его как смененный
	UpdatePassword(userID uint, passwordHash string) error
	List() ([]entity.User, error)
	// Delete удаляет пользователя вместе с его попытками
	Delete(id uint) error
}
