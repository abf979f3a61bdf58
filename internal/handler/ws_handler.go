package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/service"
	"github.com/yourusername/kuiz-api/internal/websocket"
)

// WSHandler подключает клиентов к живому лидерборду викторины
type WSHandler struct {
	hub         *websocket.Hub
	quizService *service.QuizService
	upgrader    gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket.
// Пустой allowedOrigins разрешает любой Origin.
func NewWSHandler(hub *websocket.Hub, quizService *service.QuizService, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:         hub,
		quizService: quizService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Не браузерный клиент
				if origin == "" || len(allowed) == 0 {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				log.Warn().Str("origin", origin).Msg("[WSHandler] Отклонен неразрешенный origin")
				return false
			},
		},
	}
}

// Leaderboard переводит соединение в WebSocket и подписывает его на викторину
func (h *WSHandler) Leaderboard(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	caller := callerFrom(c)

	if _, err := h.quizService.FindOne(quizID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrader уже записал ответ клиенту
		log.Warn().Err(err).Uint("quiz_id", quizID).Msg("[WSHandler] Ошибка upgrade соединения")
		return
	}

	client := websocket.NewClient(h.hub, conn, caller.ID, quizID)
	log.Info().Str("conn_id", client.ID).Uint("account_id", caller.ID).Uint("quiz_id", quizID).
		Msg("[WSHandler] Клиент подключен к лидерборду")
	client.Serve()
}
