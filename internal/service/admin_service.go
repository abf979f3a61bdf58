package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/domain/repository"
)

// AdminService управляет учетными записями администраторов
type AdminService struct {
	adminRepo  repository.AdminRepository
	tokens     TokenIssuer
	bcryptCost int
}

// NewAdminService создает новый сервис администраторов
func NewAdminService(adminRepo repository.AdminRepository, tokens TokenIssuer, bcryptCost int) *AdminService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AdminService{
		adminRepo:  adminRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register создает администратора и сразу выдает ему токен
func (s *AdminService) Register(input RegisterInput) (*AuthResult, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &entity.Admin{
		Email:    input.Email,
		Password: hash,
		Name:     input.Name,
	}
	// Повторный email отсекается уникальным индексом (ErrConflict из репозитория)
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}

	log.Info().Uint("admin_id", admin.ID).Msg("[AdminService] Зарегистрирован администратор")
	return issueSession(admin, s.tokens)
}

// Login проверяет учетные данные администратора
func (s *AdminService) Login(email, password string) (*AuthResult, error) {
	admin, err := s.adminRepo.GetByEmail(normalizeEmail(email))
	return authenticate(admin, err, password, s.tokens)
}

// GetByID возвращает администратора по ID
func (s *AdminService) GetByID(id uint) (*entity.Admin, error) {
	return s.adminRepo.GetByID(id)
}

// Update частично обновляет администратора; новый пароль хешируется
func (s *AdminService) Update(id uint, patch AccountPatch) (*entity.Admin, error) {
	if err := patch.normalize(); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := copier.CopyWithOption(admin, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply admin patch: %w", err)
	}
	if err := applyPasswordPatch(admin, patch, s.bcryptCost); err != nil {
		return nil, err
	}

	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}
