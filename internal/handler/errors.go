package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/middleware"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
	"github.com/yourusername/kuiz-api/internal/service"
)

var errorStatuses = []struct {
	sentinel error
	status   int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrConflict, http.StatusConflict},
	{apperrors.ErrValidation, http.StatusUnprocessableEntity},
	{apperrors.ErrExpiredToken, http.StatusUnauthorized},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
}

// respondError переводит ошибку сервиса в HTTP ответ
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.sentinel) {
			c.JSON(e.status, gin.H{"error": publicMessage(err, e.sentinel)})
			return
		}
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", c.GetString("request_id")).
		Msg("[Handler] Внутренняя ошибка сервера")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// publicMessage убирает префикс sentinel-ошибки из текста
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimPrefix(msg, sentinel.Error()+": "); trimmed != msg {
		return trimmed
	}
	return msg
}

// bindJSON разбирает тело запроса; при ошибке сразу отвечает 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// callerFrom возвращает владельца сессии или nil для анонимного запроса
func callerFrom(c *gin.Context) *service.Caller {
	claims := middleware.ClaimFromContext(c)
	if claims == nil {
		return nil
	}
	return &service.Caller{ID: claims.AccountID, Role: claims.Type}
}
