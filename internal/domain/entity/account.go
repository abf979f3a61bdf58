package entity

import "fmt"

// Role определяет тип учетной записи, он же тип в claims токена
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid проверяет, что роль известна
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole разбирает строковое представление роли
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown account type %q", s)
	}
}

// Account - общая способность учетных записей с паролем.
// Реализуется вариантами Admin и User; логика проверки пароля и выдачи токена
// работает только через этот интерфейс.
type Account interface {
	AccountID() uint
	AccountEmail() string
	PasswordHash() string
	SetPasswordHash(hash string)
	Role() Role
}

var (
	_ Account = (*Admin)(nil)
	_ Account = (*User)(nil)
)
