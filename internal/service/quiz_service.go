package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// DefaultAvailableQuestionCount - минимум вопросов, при котором викторина видна участникам
const DefaultAvailableQuestionCount = 10

const maxQuizTitleLength = 200

// CatalogConfig содержит настройки каталога викторин
type CatalogConfig struct {
	AvailableQuestionCount int
	CacheTTL               time.Duration
	Composition            CompositionPolicy
}

// QuizListItem - строка каталога; Attempt заполняется только для участника
type QuizListItem struct {
	entity.QuizSummary
	Attempt *entity.QuizAttempt
}

// QuizInput - данные новой викторины
type QuizInput struct {
	Title       string
	Description *string
}

// QuizPatch - частичное обновление викторины
type QuizPatch struct {
	Title       *string
	Description *string
}

// QuestionInput - данные нового вопроса
type QuestionInput struct {
	Text       string
	Difficulty entity.Difficulty
	Options    []string
	Answer     int
}

// QuestionPatch - частичное обновление вопроса
type QuestionPatch struct {
	Text       *string
	Difficulty *entity.Difficulty
	Options    []string
	Answer     *int
}

// QuizService предоставляет методы для работы с викторинами и вопросами
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.QuizAttemptRepository
	cacheRepo    repository.CacheRepository
	config       CatalogConfig
}

// NewQuizService создает новый сервис викторин. cacheRepo может быть nil.
func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.QuizAttemptRepository,
	cacheRepo repository.CacheRepository,
	config CatalogConfig,
) *QuizService {
	if config.AvailableQuestionCount <= 0 {
		config.AvailableQuestionCount = DefaultAvailableQuestionCount
	}
	if config.Composition.PerDifficulty == nil {
		enforce := config.Composition.Enforce
		config.Composition = DefaultCompositionPolicy()
		config.Composition.Enforce = enforce
	}
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		cacheRepo:    cacheRepo,
		config:       config,
	}
}

func quizCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:full", quizID)
}

// FindAll возвращает каталог в зависимости от роли вызывающего.
// Участник видит только викторины с достаточным числом вопросов и свою попытку в каждой.
// Администратор и анонимный вызов получают все викторины.
func (s *QuizService) FindAll(caller *Caller) ([]QuizListItem, error) {
	summaries, err := s.quizRepo.ListWithQuestionCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	if !caller.IsUser() {
		items := make([]QuizListItem, len(summaries))
		for i := range summaries {
			items[i] = QuizListItem{QuizSummary: summaries[i]}
		}
		return items, nil
	}

	attempts, err := s.attemptRepo.ListByUser(caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user attempts: %w", err)
	}
	attemptByQuiz := make(map[uint]*entity.QuizAttempt, len(attempts))
	for i := range attempts {
		attempt := attempts[i]
		attempt.Quiz = nil
		attemptByQuiz[attempt.QuizID] = &attempt
	}

	items := make([]QuizListItem, 0, len(summaries))
	for i := range summaries {
		if !summaries[i].IsAvailable(s.config.AvailableQuestionCount) {
			continue
		}
		items = append(items, QuizListItem{
			QuizSummary: summaries[i],
			Attempt:     attemptByQuiz[summaries[i].ID],
		})
	}
	return items, nil
}

// FindOne возвращает викторину с вопросами, читая через кеш
func (s *QuizService) FindOne(id uint) (*entity.Quiz, error) {
	key := quizCacheKey(id)
	if s.cacheRepo != nil {
		var cached entity.Quiz
		err := s.cacheRepo.GetJSON(key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Warn().Err(err).Uint("quiz_id", id).Msg("[QuizService] Ошибка чтения кеша викторины")
		}
	}

	quiz, err := s.quizRepo.GetWithQuestions(id)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil && s.config.CacheTTL > 0 {
		if err := s.cacheRepo.SetJSON(key, quiz, s.config.CacheTTL); err != nil {
			log.Warn().Err(err).Uint("quiz_id", id).Msg("[QuizService] Ошибка записи кеша викторины")
		}
	}
	return quiz, nil
}

// Create создает викторину от имени администратора
func (s *QuizService) Create(input QuizInput, adminID uint) (*entity.Quiz, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	quiz := &entity.Quiz{
		Title:       title,
		Description: input.Description,
		AdminID:     adminID,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	log.Info().Uint("quiz_id", quiz.ID).Uint("admin_id", adminID).Msg("[QuizService] Викторина создана")
	return quiz, nil
}

// Update частично обновляет викторину
func (s *QuizService) Update(id uint, patch QuizPatch) (*entity.Quiz, error) {
	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	quiz, err := s.quizRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(quiz, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply quiz patch: %w", err)
	}
	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.invalidate(id)
	return quiz, nil
}

// Remove удаляет викторину вместе с вопросами и попытками
func (s *QuizService) Remove(id uint) error {
	if err := s.quizRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	log.Info().Uint("quiz_id", id).Msg("[QuizService] Викторина удалена")
	return nil
}

// AddQuestion добавляет вопрос в викторину
func (s *QuizService) AddQuestion(quizID uint, input QuestionInput) (*entity.Question, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}

	question := &entity.Question{
		QuizID:     quizID,
		Text:       strings.TrimSpace(input.Text),
		Difficulty: input.Difficulty,
		Options:    entity.StringArray(input.Options),
		Answer:     input.Answer,
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	if s.config.Composition.Enforce {
		counts, err := s.questionRepo.CountByDifficulty(quizID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions: %w", err)
		}
		if err := s.config.Composition.CheckAdd(counts, question.Difficulty); err != nil {
			return nil, err
		}
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.invalidate(quizID)
	return question, nil
}

// UpdateQuestion частично обновляет вопрос
func (s *QuizService) UpdateQuestion(id uint, patch QuestionPatch) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	previous := question.Difficulty

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		patch.Text = &text
	}
	if err := copier.CopyWithOption(question, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply question patch: %w", err)
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	if s.config.Composition.Enforce && previous != question.Difficulty {
		counts, err := s.questionRepo.CountByDifficulty(question.QuizID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions: %w", err)
		}
		if err := s.config.Composition.CheckChange(counts, previous, question.Difficulty); err != nil {
			return nil, err
		}
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidate(question.QuizID)
	return question, nil
}

// RemoveQuestion удаляет вопрос
func (s *QuizService) RemoveQuestion(id uint) error {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.questionRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(question.QuizID)
	return nil
}

// invalidate сбрасывает кеш викторины; ошибка кеша не прерывает операцию
func (s *QuizService) invalidate(quizID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(quizCacheKey(quizID)); err != nil {
		log.Warn().Err(err).Uint("quiz_id", quizID).Msg("[QuizService] Не удалось сбросить кеш викторины")
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if len([]rune(title)) > maxQuizTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", apperrors.ErrValidation, maxQuizTitleLength)
	}
	return title, nil
}

func validateQuestion(q *entity.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
