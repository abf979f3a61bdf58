package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// DefaultBcryptCost - стоимость хеширования паролей
const DefaultBcryptCost = 10

const minPasswordLength = 6

// TokenIssuer выпускает сессионные токены
type TokenIssuer interface {
	GenerateToken(accountID uint, role entity.Role) (string, error)
}

// AuthResult - учетная запись и выданный для нее токен
type AuthResult struct {
	Account     entity.Account
	AccessToken string
}

// RegisterInput - данные для создания учетной записи
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// normalize приводит email к каноничному виду и проверяет поля
func (in *RegisterInput) normalize() error {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	return validatePassword(in.Password)
}

// AccountPatch - частичное обновление учетной записи; nil поля не меняются.
// Пароль не копируется напрямую, он всегда хешируется заново.
type AccountPatch struct {
	Email    *string
	Name     *string
	Password *string `copier:"-"`
}

// normalize приводит заданные поля к каноничному виду и проверяет их
func (p *AccountPatch) normalize() error {
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if err := validateEmail(email); err != nil {
			return err
		}
		p.Email = &email
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		p.Name = &name
	}
	if p.Password != nil {
		return validatePassword(*p.Password)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", apperrors.ErrValidation, email)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	// bcrypt учитывает только первые 72 байта
	if len(password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes", apperrors.ErrValidation)
	}
	return nil
}

// hashPassword хеширует пароль bcrypt с заданной стоимостью
func hashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// passwordMatches сравнивает открытый пароль с хешем учетной записи
func passwordMatches(account entity.Account, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(plain)) == nil
}

// authenticate проверяет найденную учетную запись и выдает токен.
// lookupErr - результат поиска по email; ErrNotFound и неверный пароль дают одну и ту же ошибку.
func authenticate(account entity.Account, lookupErr error, password string, tokens TokenIssuer) (*AuthResult, error) {
	if lookupErr != nil {
		return nil, credentialLookupError(lookupErr)
	}
	if !passwordMatches(account, password) {
		return nil, ErrInvalidCredentials
	}
	return issueSession(account, tokens)
}

// credentialLookupError скрывает отсутствие учетной записи за ErrInvalidCredentials
func credentialLookupError(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("failed to look up account: %w", err)
}

// issueSession выпускает токен для учетной записи
func issueSession(account entity.Account, tokens TokenIssuer) (*AuthResult, error) {
	token, err := tokens.GenerateToken(account.AccountID(), account.Role())
	if err != nil {
		log.Error().Err(err).Uint("account_id", account.AccountID()).Str("type", string(account.Role())).
			Msg("[Auth] Ошибка генерации токена")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Account: account, AccessToken: token}, nil
}

// applyPasswordPatch хеширует новый пароль из patch, если он задан
func applyPasswordPatch(account entity.Account, patch AccountPatch, cost int) error {
	if patch.Password == nil {
		return nil
	}
	hash, err := hashPassword(*patch.Password, cost)
	if err != nil {
		return err
	}
	account.SetPasswordHash(hash)
	return nil
}
