package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/pkg/auth"
)

const claimsContextKey = "session_claims"

// Типы ошибок доступа в ответе
const (
	ErrorTypeTokenMissing  = "token_missing"
	ErrorTypeTokenFormat   = "token_format"
	ErrorTypeTokenInvalid  = "token_invalid"
	ErrorTypeRoleForbidden = "role_forbidden"
)

// AccessRule описывает требования маршрута к сессии.
// Roles == nil означает отсутствие требования к роли; непустой или пустой
// не-nil список требует claims с ролью из списка.
type AccessRule struct {
	Public bool
	Roles  []entity.Role
	// TokenQuery - имя query-параметра с токеном, когда заголовок недоступен (websocket)
	TokenQuery string
}

// PublicAccess - маршрут без аутентификации; claims прикрепляются, если токен валиден
func PublicAccess() AccessRule {
	return AccessRule{Public: true}
}

// AuthenticatedAccess - любая валидная сессия
func AuthenticatedAccess() AccessRule {
	return AccessRule{}
}

// RoleAccess - сессия с одной из перечисленных ролей
func RoleAccess(roles ...entity.Role) AccessRule {
	if roles == nil {
		roles = []entity.Role{}
	}
	return AccessRule{Roles: roles}
}

func (r AccessRule) allows(role entity.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// AuthMiddleware проверяет сессию и роль для маршрутов
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware создает новый middleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Gate возвращает middleware для правила доступа маршрута.
// Сначала аутентификация (401), затем авторизация по роли (403).
func (m *AuthMiddleware) Gate(rule AccessRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errType, errMsg := extractToken(c, rule.TokenQuery)
		if errType == "" {
			claims, err := m.jwtService.ParseToken(token)
			switch {
			case err == nil:
				c.Set(claimsContextKey, claims)
			case !rule.Public:
				log.Debug().Err(err).Str("path", c.FullPath()).Msg("[AuthMiddleware] Токен отклонен")
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token", ErrorTypeTokenInvalid)
				return
			}
		} else if !rule.Public {
			abortWithError(c, http.StatusUnauthorized, errMsg, errType)
			return
		}

		if rule.Roles != nil {
			claims := ClaimFromContext(c)
			if claims == nil {
				abortWithError(c, http.StatusUnauthorized, "Unauthorized", ErrorTypeTokenMissing)
				return
			}
			if !rule.allows(claims.Type) {
				abortWithError(c, http.StatusForbidden, "Forbidden", ErrorTypeRoleForbidden)
				return
			}
		}

		c.Next()
	}
}

// extractToken достает bearer токен из заголовка или query-параметра
func extractToken(c *gin.Context, queryParam string) (token, errType, errMsg string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if queryParam != "" {
			if token = c.Query(queryParam); token != "" {
				return token, "", ""
			}
		}
		return "", ErrorTypeTokenMissing, "Authorization header is required"
	}

	// Проверяем формат заголовка Bearer {token}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrorTypeTokenFormat, "Authorization header format must be Bearer {token}"
	}
	return parts[1], "", ""
}

func abortWithError(c *gin.Context, status int, msg, errType string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "error_type": errType})
}

// ClaimFromContext возвращает claims сессии или nil для анонимного запроса
func ClaimFromContext(c *gin.Context) *auth.SessionClaims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.SessionClaims)
	return claims
}
