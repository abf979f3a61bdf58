package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новую викторину
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID возвращает викторину по ID
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &quiz, nil
}

// GetWithQuestions возвращает викторину вместе с вопросами
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &quiz, nil
}

// quizCountRow - строка выборки викторин с подсчитанным количеством вопросов
type quizCountRow struct {
	ID            uint
	Title         string
	Description   *string
	AdminID       uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
	QuestionCount int
}

// ListWithQuestionCounts возвращает все викторины с количеством вопросов, новые первыми
func (r *QuizRepo) ListWithQuestionCounts() ([]entity.QuizSummary, error) {
	var rows []quizCountRow
	err := r.db.Model(&entity.Quiz{}).
		Select("quizzes.id, quizzes.title, quizzes.description, quizzes.admin_id, quizzes.created_at, quizzes.updated_at, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS question_count").
		Order("quizzes.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.QuizSummary, len(rows))
	for i, row := range rows {
		summaries[i] = entity.QuizSummary{
			Quiz: entity.Quiz{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
				AdminID:     row.AdminID,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			},
			QuestionCount: row.QuestionCount,
		}
	}
	return summaries, nil
}

// Update обновляет информацию о викторине (без вопросов)
func (r *QuizRepo) Update(quiz *entity.Quiz) error {
	return r.db.Omit("Questions").Save(quiz).Error
}

// Delete удаляет викторину вместе с вопросами и попытками.
// Каскад выполняется явно, не полагаясь на ON DELETE CASCADE в схеме.
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&entity.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Quiz{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
