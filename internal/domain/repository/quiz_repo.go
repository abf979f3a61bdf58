package repository

import (
	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с викторинами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	GetWithQuestions(id uint) (*entity.Quiz, error)
	// ListWithQuestionCounts возвращает все викторины с количеством вопросов
	ListWithQuestionCounts() ([]entity.QuizSummary, error)
	Update(quiz *entity.Quiz) error
	// Delete удаляет викторину, ее вопросы и попытки в одной транзакции
	Delete(id uint) error
}
