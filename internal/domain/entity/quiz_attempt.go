package entity

import (
	"time"
)

// QuizAttempt - единственная неизменяемая попытка пользователя пройти викторину.
// Уникальность (quiz_id, user_id) гарантирует индекс idx_quiz_attempt_quiz_user.
type QuizAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QuizID      uint      `gorm:"not null;uniqueIndex:idx_quiz_attempt_quiz_user" json:"quiz_id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_quiz_attempt_quiz_user" json:"user_id"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	AttemptedAt time.Time `gorm:"not null" json:"attempted_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Quiz *Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"quiz,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
