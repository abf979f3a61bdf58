package entity

import "time"

// User представляет участника, проходящего викторины
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	Name     string `gorm:"size:100;not null;default:''" json:"name"`
	// PasswordChanged false означает, что пароль был выдан администратором и должен быть сменен
	PasswordChanged bool      `gorm:"not null;default:false" json:"password_changed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

func (u *User) AccountID() uint             { return u.ID }
func (u *User) AccountEmail() string        { return u.Email }
func (u *User) PasswordHash() string        { return u.Password }
func (u *User) SetPasswordHash(hash string) { u.Password = hash }
func (u *User) Role() Role                  { return RoleUser }

// MustChangePassword сообщает клиенту, что нужно принудительно сменить пароль
func (u *User) MustChangePassword() bool {
	return !u.PasswordChanged
}
