package postgres

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrConflict, user.Email)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrConflict, user.Email)
		}
		return err
	}
	return nil
}

// UpdatePassword сохраняет новый хеш пароля и выставляет password_changed.
// Хеширование выполняется в сервисе, здесь пароль уже не открытый.
func (r *UserRepo) UpdatePassword(userID uint, passwordHash string) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":         passwordHash,
			"password_changed": true,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("user_id", userID).Msg("[UserRepo.UpdatePassword] Ошибка при обновлении пароля")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает всех пользователей
func (r *UserRepo) List() ([]entity.User, error) {
	var users []entity.User
	err := r.db.Order("id").Find(&users).Error
	return users, err
}

// Delete удаляет пользователя и его попытки в одной транзакции
func (r *UserRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entity.QuizAttempt{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
