package dto

import (
	"time"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/service"
)

// AccountResponse - учетная запись администратора или участника без пароля
type AccountResponse struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Type  entity.Role `json:"type"`
	// PasswordChanged есть только у участника
	PasswordChanged *bool     `json:"password_changed,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AuthResponse - ответ регистрации и входа
type AuthResponse struct {
	User        *AccountResponse `json:"user"`
	AccessToken string           `json:"access_token"`
}

// NewAccountResponse создает DTO для любой учетной записи
func NewAccountResponse(account entity.Account) *AccountResponse {
	switch a := account.(type) {
	case *entity.Admin:
		return &AccountResponse{ID: a.ID, Email: a.Email, Name: a.Name, Type: entity.RoleAdmin, CreatedAt: a.CreatedAt}
	case *entity.User:
		changed := a.PasswordChanged
		return &AccountResponse{
			ID:              a.ID,
			Email:           a.Email,
			Name:            a.Name,
			Type:            entity.RoleUser,
			PasswordChanged: &changed,
			CreatedAt:       a.CreatedAt,
		}
	default:
		return nil
	}
}

// NewAuthResponse создает DTO для результата аутентификации
func NewAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:        NewAccountResponse(result.Account),
		AccessToken: result.AccessToken,
	}
}

// NewUserListResponse создает слайс DTO для участников
func NewUserListResponse(users []entity.User) []*AccountResponse {
	list := make([]*AccountResponse, len(users))
	for i := range users {
		list[i] = NewAccountResponse(&users[i])
	}
	return list
}
