package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// LeaderboardPublisher получает уведомления о новых попытках
type LeaderboardPublisher interface {
	PublishAttempt(attempt *entity.QuizAttempt)
}

// AttemptService принимает и выдает попытки прохождения викторин
type AttemptService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.QuizAttemptRepository
	publisher    LeaderboardPublisher
	now          func() time.Time
}

// NewAttemptService создает новый сервис попыток. publisher может быть nil.
func NewAttemptService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.QuizAttemptRepository,
	publisher LeaderboardPublisher,
) *AttemptService {
	return &AttemptService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// ScoreAnswers считает совпадения ответов с правильными вариантами.
// Ответы на вопросы не из этой викторины игнорируются.
func ScoreAnswers(questions []entity.Question, answers map[uint]int) int {
	byID := make(map[uint]*entity.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	score := 0
	for questionID, selected := range answers {
		if q, ok := byID[questionID]; ok && q.IsCorrect(selected) {
			score++
		}
	}
	return score
}

// AttemptQuiz сохраняет единственную попытку участника.
// Вторая попытка для той же пары (викторина, участник) отклоняется с Forbidden.
func (s *AttemptService) AttemptQuiz(quizID uint, answers map[uint]int, caller *Caller) (*entity.QuizAttempt, error) {
	if !caller.IsUser() {
		return nil, fmt.Errorf("%w: only users can attempt quizzes", apperrors.ErrForbidden)
	}

	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}

	// Быстрая проверка; окончательное решение принимает уникальный индекс при вставке
	existing, err := s.attemptRepo.GetByQuizAndUser(quizID, caller.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing attempt: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyAttempted
	}

	questions, err := s.questionRepo.GetByQuizID(quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	attempt := &entity.QuizAttempt{
		QuizID:      quizID,
		UserID:      caller.ID,
		Score:       ScoreAnswers(questions, answers),
		AttemptedAt: s.now(),
	}
	created, err := s.attemptRepo.CreateIfAbsent(attempt)
	if err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	if !created {
		return nil, ErrAlreadyAttempted
	}

	log.Info().Uint("quiz_id", quizID).Uint("user_id", caller.ID).Int("score", attempt.Score).
		Msg("[AttemptService] Попытка сохранена")

	if s.publisher != nil {
		s.publisher.PublishAttempt(attempt)
	}
	return attempt, nil
}

// GetQuizAttempts возвращает попытки викторины с именами участников, лучшие первыми
func (s *AttemptService) GetQuizAttempts(quizID uint) ([]entity.QuizAttempt, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.attemptRepo.ListByQuiz(quizID)
}

// GetUserQuizAttempts возвращает попытки участника вместе с викторинами
func (s *AttemptService) GetUserQuizAttempts(userID uint) ([]entity.QuizAttempt, error) {
	return s.attemptRepo.ListByUser(userID)
}
