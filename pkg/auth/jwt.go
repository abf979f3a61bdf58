package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// SessionClaims - содержимое сессионного токена: владелец и тип учетной записи
type SessionClaims struct {
	AccountID uint        `json:"account_id"`
	Type      entity.Role `json:"type"`
	jwt.RegisteredClaims
}

// IsAdmin сообщает, выдан ли токен администратору
func (c *SessionClaims) IsAdmin() bool {
	return c.Type == entity.RoleAdmin
}

// JWTService выпускает и проверяет сессионные токены (HS256)
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secret string, expiration time.Duration, issuer string) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	if expiration <= 0 {
		expiration = 30 * 24 * time.Hour
	}
	return &JWTService{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// Expiration возвращает время жизни выпускаемых токенов
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// GenerateToken создает токен для учетной записи заданного типа
func (s *JWTService) GenerateToken(accountID uint, role entity.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("cannot issue token for unknown account type %q", role)
	}

	issuedAt := s.now()
	claims := &SessionClaims{
		AccountID: accountID,
		Type:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		log.Error().Err(err).Uint("account_id", accountID).Msg("[JWT] Ошибка подписи токена")
		return "", err
	}
	return signed, nil
}

// ParseToken проверяет подпись, срок действия и тип учетной записи.
// Истекший токен возвращает apperrors.ErrExpiredToken, остальные ошибки - apperrors.ErrUnauthorized.
func (s *JWTService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: token is expired", apperrors.ErrExpiredToken)
		}
		log.Debug().Err(err).Msg("[JWT] Токен не прошел проверку")
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}
	if claims.AccountID == 0 || !claims.Type.Valid() {
		return nil, fmt.Errorf("%w: token carries unknown account", apperrors.ErrUnauthorized)
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: unexpected token issuer", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
