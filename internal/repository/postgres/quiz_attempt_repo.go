package postgres

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// QuizAttemptRepo реализует repository.QuizAttemptRepository
type QuizAttemptRepo struct {
	db *gorm.DB
}

// NewQuizAttemptRepo создает новый репозиторий попыток
func NewQuizAttemptRepo(db *gorm.DB) *QuizAttemptRepo {
	return &QuizAttemptRepo{db: db}
}

// CreateIfAbsent вставляет попытку одним запросом INSERT ... ON CONFLICT DO NOTHING.
// Уникальный индекс idx_quiz_attempt_quiz_user делает проверку и вставку атомарными:
// из двух конкурентных запросов строку создаст только один.
func (r *QuizAttemptRepo) CreateIfAbsent(attempt *entity.QuizAttempt) (bool, error) {
	result := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(attempt)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		log.Debug().Uint("quiz_id", attempt.QuizID).Uint("user_id", attempt.UserID).
			Msg("[QuizAttemptRepo] Попытка уже существует, вставка пропущена")
		return false, nil
	}
	return true, nil
}

// GetByQuizAndUser возвращает попытку пользователя для викторины
func (r *QuizAttemptRepo) GetByQuizAndUser(quizID, userID uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&attempt).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &attempt, nil
}

// ListByQuiz возвращает попытки викторины, лучшие результаты первыми.
// Из пользователя выбираются только id и name.
func (r *QuizAttemptRepo) ListByQuiz(quizID uint) ([]entity.QuizAttempt, error) {
	var attempts []entity.QuizAttempt
	err := r.db.Where("quiz_id = ?", quizID).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("score DESC, attempted_at ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}

// ListByUser возвращает попытки пользователя вместе с викторинами
func (r *QuizAttemptRepo) ListByUser(userID uint) ([]entity.QuizAttempt, error) {
	var attempts []entity.QuizAttempt
	err := r.db.Where("user_id = ?", userID).
		Preload("Quiz").
		Order("attempted_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}
