package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/kuiz-api/internal/handler/dto"
	"github.com/yourusername/kuiz-api/internal/handler/helper"
	"github.com/yourusername/kuiz-api/internal/service"
)

// AttemptHandler обрабатывает попытки прохождения викторин
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// AttemptRequest - ответы участника: id вопроса -> индекс варианта
type AttemptRequest struct {
	Inputs map[string]int `json:"inputs"`
}

// Attempt принимает единственную попытку участника
func (h *AttemptHandler) Attempt(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	var req AttemptRequest
	if !bindJSON(c, &req) {
		return
	}

	attempt, err := h.attemptService.AttemptQuiz(quizID, helper.ParseAnswerInputs(req.Inputs), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt))
}

// ListByQuiz возвращает лидерборд викторины
func (h *AttemptHandler) ListByQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	attempts, err := h.attemptService.GetQuizAttempts(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAttemptListResponse(attempts))
}

// ListMine возвращает попытки владельца сессии
func (h *AttemptHandler) ListMine(c *gin.Context) {
	attempts, err := h.attemptService.GetUserQuizAttempts(callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAttemptListResponse(attempts))
}

// Export выгружает лидерборд в CSV или XLSX
func (h *AttemptHandler) Export(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	export, err := h.attemptService.ExportQuizAttempts(quizID, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
