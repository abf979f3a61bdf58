package entity

import "time"

// Admin представляет администратора каталога викторин
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Name      string    `gorm:"size:100;not null;default:''" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Admin) TableName() string {
	return "admins"
}

func (a *Admin) AccountID() uint             { return a.ID }
func (a *Admin) AccountEmail() string        { return a.Email }
func (a *Admin) PasswordHash() string        { return a.Password }
func (a *Admin) SetPasswordHash(hash string) { a.Password = hash }
func (a *Admin) Role() Role                  { return RoleAdmin }
