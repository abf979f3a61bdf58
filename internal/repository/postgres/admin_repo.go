package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// AdminRepo реализует repository.AdminRepository
type AdminRepo struct {
	db *gorm.DB
}

// NewAdminRepo создает новый репозиторий администраторов
func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// Create создает нового администратора
func (r *AdminRepo) Create(admin *entity.Admin) error {
	if err := r.db.Create(admin).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: admin with email %s already exists", apperrors.ErrConflict, admin.Email)
		}
		return err
	}
	return nil
}

// GetByID возвращает администратора по ID
func (r *AdminRepo) GetByID(id uint) (*entity.Admin, error) {
	var admin entity.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// GetByEmail возвращает администратора по email
func (r *AdminRepo) GetByEmail(email string) (*entity.Admin, error) {
	var admin entity.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// Update сохраняет изменения администратора
func (r *AdminRepo) Update(admin *entity.Admin) error {
	if err := r.db.Save(admin).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: admin with email %s already exists", apperrors.ErrConflict, admin.Email)
		}
		return err
	}
	return nil
}
