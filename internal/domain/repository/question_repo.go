package repository

import (
	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	GetByQuizID(quizID uint) ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
	// CountByDifficulty возвращает количество вопросов викторины по сложности
	CountByDifficulty(quizID uint) (map[entity.Difficulty]int, error)
}
