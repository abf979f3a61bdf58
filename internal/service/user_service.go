package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/domain/repository"
)

// notifyTimeout ограничивает отправку приветственного письма
const notifyTimeout = 10 * time.Second

// Caller - владелец текущей сессии
type Caller struct {
	ID   uint
	Role entity.Role
}

// IsAdmin сообщает, является ли вызывающий администратором
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == entity.RoleAdmin
}

// IsUser сообщает, является ли вызывающий участником
func (c *Caller) IsUser() bool {
	return c != nil && c.Role == entity.RoleUser
}

// UserService управляет учетными записями участников
type UserService struct {
	userRepo   repository.UserRepository
	adminRepo  repository.AdminRepository
	tokens     TokenIssuer
	notifier   AccountNotifier
	bcryptCost int
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	tokens TokenIssuer,
	notifier AccountNotifier,
	bcryptCost int,
) *UserService {
	if notifier == nil {
		notifier = NoopAccountNotifier{}
	}
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &UserService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		tokens:     tokens,
		notifier:   notifier,
		bcryptCost: bcryptCost,
	}
}

func (s *UserService) createUser(input RegisterInput, passwordChanged bool) (*entity.User, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:           input.Email,
		Password:        hash,
		Name:            input.Name,
		PasswordChanged: passwordChanged,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register регистрирует участника по собственному паролю и выдает токен
func (s *UserService) Register(input RegisterInput) (*AuthResult, error) {
	user, err := s.createUser(input, true)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", user.ID).Msg("[UserService] Пользователь зарегистрирован")
	return issueSession(user, s.tokens)
}

// Create создает участника от имени администратора.
// Токен не выдается; пользователь должен сменить пароль при первом входе.
func (s *UserService) Create(input RegisterInput) (*entity.User, error) {
	user, err := s.createUser(input, false)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", user.ID).Msg("[UserService] Администратор создал пользователя")

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.notifier.SendAccountCreated(ctx, user.Email, user.Name); err != nil {
		// Учетная запись уже создана, письмо можно отправить повторно вручную
		log.Warn().Err(err).Uint("user_id", user.ID).Msg("[UserService] Не удалось отправить письмо о создании учетной записи")
	}
	return user, nil
}

// Login проверяет учетные данные участника
func (s *UserService) Login(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	return authenticate(user, err, password, s.tokens)
}

// ChangePassword задает новый пароль по email.
// Неизвестный email и совпадение с текущим паролем дают Unauthorized.
func (s *UserService) ChangePassword(email, newPassword string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, credentialLookupError(err)
	}
	if passwordMatches(user, newPassword) {
		return nil, ErrSamePassword
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := hashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return nil, err
	}

	user.Password = hash
	user.PasswordChanged = true
	log.Info().Uint("user_id", user.ID).Msg("[UserService] Пароль изменен")
	return user, nil
}

// FindAll возвращает всех участников
func (s *UserService) FindAll() ([]entity.User, error) {
	return s.userRepo.List()
}

// Me возвращает учетную запись вызывающего
func (s *UserService) Me(caller *Caller) (entity.Account, error) {
	if caller.IsAdmin() {
		return s.adminRepo.GetByID(caller.ID)
	}
	return s.userRepo.GetByID(caller.ID)
}

// Update частично обновляет участника. Участник может менять только себя.
// Новый пароль хешируется заново.
func (s *UserService) Update(id uint, patch AccountPatch, caller *Caller) (*entity.User, error) {
	if !caller.IsAdmin() && (caller == nil || caller.ID != id) {
		return nil, ErrNotAccountOwner
	}
	if err := patch.normalize(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := copier.CopyWithOption(user, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply user patch: %w", err)
	}
	if err := applyPasswordPatch(user, patch, s.bcryptCost); err != nil {
		return nil, err
	}
	if patch.Password != nil {
		// Пароль, заданный администратором, пользователь должен сменить сам
		user.PasswordChanged = !caller.IsAdmin()
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Remove удаляет участника вместе с его попытками
func (s *UserService) Remove(id uint) error {
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	log.Info().Uint("user_id", id).Msg("[UserService] Пользователь удален")
	return nil
}
