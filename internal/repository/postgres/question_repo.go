package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &question, nil
}

// GetByQuizID возвращает все вопросы викторины
func (r *QuestionRepo) GetByQuizID(quizID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("quiz_id = ?", quizID).Order("id").Find(&questions).Error
	return questions, err
}

// Update обновляет вопрос
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountByDifficulty возвращает количество вопросов викторины по каждой сложности
func (r *QuestionRepo) CountByDifficulty(quizID uint) (map[entity.Difficulty]int, error) {
	var rows []struct {
		Difficulty entity.Difficulty
		Count      int
	}
	err := r.db.Model(&entity.Question{}).
		Select("difficulty, COUNT(*) AS count").
		Where("quiz_id = ?", quizID).
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.Difficulty]int, len(rows))
	for _, row := range rows {
		counts[row.Difficulty] = row.Count
	}
	return counts, nil
}
