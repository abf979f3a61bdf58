package repository

import (
	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// QuizAttemptRepository определяет методы для работы с попытками прохождения викторин
type QuizAttemptRepository interface {
	// CreateIfAbsent атомарно вставляет попытку, если для (quiz_id, user_id) ее еще нет.
	// Возвращает false, если попытка уже существовала.
	CreateIfAbsent(attempt *entity.QuizAttempt) (bool, error)
	GetByQuizAndUser(quizID, userID uint) (*entity.QuizAttempt, error)
	// ListByQuiz возвращает попытки викторины с проекцией пользователя (id, name)
	ListByQuiz(quizID uint) ([]entity.QuizAttempt, error)
	// ListByUser возвращает попытки пользователя вместе с данными викторин
	ListByUser(userID uint) ([]entity.QuizAttempt, error)
}
