package entity

import (
	"time"
)

// Quiz представляет викторину, принадлежащую создавшему ее администратору
type Quiz struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description *string    `gorm:"size:1000" json:"description,omitempty"`
	AdminID     uint       `gorm:"not null;index" json:"admin_id"`
	Questions   []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// QuizSummary - викторина с количеством вопросов, строка списка каталога
type QuizSummary struct {
	Quiz
	QuestionCount int `json:"question_count"`
}

// IsAvailable проверяет, набрала ли викторина достаточно вопросов для участников
func (s *QuizSummary) IsAvailable(minQuestions int) bool {
	return s.QuestionCount >= minQuestions
}
