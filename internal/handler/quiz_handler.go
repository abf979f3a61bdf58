package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/handler/dto"
	"github.com/yourusername/kuiz-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами и вопросами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateQuizRequest представляет запрос на создание викторины
type CreateQuizRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// UpdateQuizRequest - частичное обновление викторины
type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// CreateQuestionRequest представляет запрос на добавление вопроса
type CreateQuestionRequest struct {
	Text       string            `json:"text" binding:"required"`
	Difficulty entity.Difficulty `json:"difficulty" binding:"required"`
	Options    []string          `json:"options" binding:"required"`
	Answer     *int              `json:"answer" binding:"required"`
}

// UpdateQuestionRequest - частичное обновление вопроса
type UpdateQuestionRequest struct {
	Text       *string            `json:"text"`
	Difficulty *entity.Difficulty `json:"difficulty"`
	Options    []string           `json:"options"`
	Answer     *int               `json:"answer"`
}

// List возвращает каталог в зависимости от роли вызывающего
func (h *QuizHandler) List(c *gin.Context) {
	items, err := h.quizService.FindAll(callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizListResponse(items))
}

// Get возвращает викторину с вопросами; ответы видит только администратор
func (h *QuizHandler) Get(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.FindOne(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, callerFrom(c).IsAdmin()))
}

// Create создает викторину от имени администратора
func (h *QuizHandler) Create(c *gin.Context) {
	var req CreateQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.Create(service.QuizInput{Title: req.Title, Description: req.Description}, callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, true))
}

// Update частично обновляет викторину
func (h *QuizHandler) Update(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	var req UpdateQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.Update(quizID, service.QuizPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true))
}

// Remove удаляет викторину
func (h *QuizHandler) Remove(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	if err := h.quizService.Remove(quizID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddQuestion добавляет вопрос в викторину
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	var req CreateQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.quizService.AddQuestion(quizID, service.QuestionInput{
		Text:       req.Text,
		Difficulty: req.Difficulty,
		Options:    req.Options,
		Answer:     *req.Answer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question, true))
}

// UpdateQuestion частично обновляет вопрос
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)
	var req UpdateQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.quizService.UpdateQuestion(questionID, service.QuestionPatch{
		Text:       req.Text,
		Difficulty: req.Difficulty,
		Options:    req.Options,
		Answer:     req.Answer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question, true))
}

// RemoveQuestion удаляет вопрос
func (h *QuizHandler) RemoveQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)
	if err := h.quizService.RemoveQuestion(questionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
