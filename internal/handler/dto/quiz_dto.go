package dto

import (
	"time"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/handler/helper"
	"github.com/yourusername/kuiz-api/internal/service"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID         uint                    `json:"id"`
	QuizID     uint                    `json:"quiz_id"`
	Text       string                  `json:"text"`
	Difficulty entity.Difficulty       `json:"difficulty"`
	Options    []helper.QuestionOption `json:"options"`
	// Answer виден только администратору
	Answer    *int      `json:"answer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuizResponse представляет викторину в формате для ответа клиенту
type QuizResponse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Description   *string            `json:"description,omitempty"`
	AdminID       uint               `json:"admin_id"`
	QuestionCount int                `json:"question_count"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	Attempt       *AttemptResponse   `json:"attempt,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AttemptUserResponse - участник в таблице попыток
type AttemptUserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AttemptResponse представляет попытку в формате для ответа клиенту
type AttemptResponse struct {
	ID          uint                 `json:"id"`
	QuizID      uint                 `json:"quiz_id"`
	UserID      uint                 `json:"user_id"`
	Score       int                  `json:"score"`
	AttemptedAt time.Time            `json:"attempted_at"`
	User        *AttemptUserResponse `json:"user,omitempty"`
	Quiz        *QuizResponse        `json:"quiz,omitempty"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question, withAnswer bool) QuestionResponse {
	resp := QuestionResponse{
		ID:         q.ID,
		QuizID:     q.QuizID,
		Text:       q.Text,
		Difficulty: q.Difficulty,
		Options:    helper.ConvertOptionsToObjects(q.Options),
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
	if withAnswer {
		answer := q.Answer
		resp.Answer = &answer
	}
	return resp
}

// NewQuizResponse создает DTO для викторины с вопросами
func NewQuizResponse(quiz *entity.Quiz, withAnswers bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	var questions []QuestionResponse
	if len(quiz.Questions) > 0 {
		questions = make([]QuestionResponse, len(quiz.Questions))
		for i := range quiz.Questions {
			questions[i] = NewQuestionResponse(&quiz.Questions[i], withAnswers)
		}
	}

	return &QuizResponse{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		AdminID:       quiz.AdminID,
		QuestionCount: len(quiz.Questions),
		Questions:     questions,
		CreatedAt:     quiz.CreatedAt,
		UpdatedAt:     quiz.UpdatedAt,
	}
}

// NewQuizListResponse создает слайс DTO для каталога
func NewQuizListResponse(items []service.QuizListItem) []*QuizResponse {
	list := make([]*QuizResponse, len(items))
	for i := range items {
		quiz := items[i].Quiz
		resp := NewQuizResponse(&quiz, false)
		resp.QuestionCount = items[i].QuestionCount
		resp.Attempt = NewAttemptResponse(items[i].Attempt)
		list[i] = resp
	}
	return list
}

// NewAttemptResponse создает DTO для попытки
func NewAttemptResponse(attempt *entity.QuizAttempt) *AttemptResponse {
	if attempt == nil {
		return nil
	}
	resp := &AttemptResponse{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		UserID:      attempt.UserID,
		Score:       attempt.Score,
		AttemptedAt: attempt.AttemptedAt,
	}
	if attempt.User != nil {
		resp.User = &AttemptUserResponse{ID: attempt.User.ID, Name: attempt.User.Name}
	}
	if attempt.Quiz != nil {
		resp.Quiz = NewQuizResponse(attempt.Quiz, false)
	}
	return resp
}

// NewAttemptListResponse создает слайс DTO для списка попыток
func NewAttemptListResponse(attempts []entity.QuizAttempt) []*AttemptResponse {
	list := make([]*AttemptResponse, len(attempts))
	for i := range attempts {
		list[i] = NewAttemptResponse(&attempts[i])
	}
	return list
}
