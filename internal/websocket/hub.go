package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// broadcastBuffer - размер очереди событий хаба
const broadcastBuffer = 256

type roomMessage struct {
	quizID  uint
	payload []byte
}

// Hub хранит подписчиков по викторинам и рассылает им события.
// Все изменения комнат выполняются в горутине Run.
type Hub struct {
	rooms      map[uint]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	done       chan struct{}

	clients atomic.Int64
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run обрабатывает подписки и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("[Hub] Запущен")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
			}
			h.rooms = make(map[uint]map[*Client]struct{})
			h.clients.Store(0)
			log.Info().Msg("[Hub] Остановлен")
			return

		case client := <-h.register:
			room, ok := h.rooms[client.QuizID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.QuizID] = room
			}
			room[client] = struct{}{}
			h.clients.Add(1)
			log.Debug().Str("conn_id", client.ID).Uint("quiz_id", client.QuizID).Msg("[Hub] Клиент подписан")

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.quizID] {
				select {
				case client.send <- msg.payload:
				default:
					// Буфер медленного клиента переполнен
					log.Warn().Str("conn_id", client.ID).Uint("quiz_id", msg.quizID).Msg("[Hub] Клиент не успевает, отключаем")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	room, ok := h.rooms[client.QuizID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.send)
	h.clients.Add(-1)
	if len(room) == 0 {
		delete(h.rooms, client.QuizID)
	}
}

// Register подписывает клиента; false, если хаб уже остановлен
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister отписывает клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast отправляет событие всем подписчикам викторины
func (h *Hub) Broadcast(quizID uint, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	select {
	case <-h.done:
		return fmt.Errorf("hub is stopped")
	default:
	}
	select {
	case h.broadcast <- roomMessage{quizID: quizID, payload: payload}:
		return nil
	default:
		return fmt.Errorf("hub broadcast queue is full")
	}
}

// PublishAttempt рассылает новую попытку подписчикам ее викторины
func (h *Hub) PublishAttempt(attempt *entity.QuizAttempt) {
	err := h.Broadcast(attempt.QuizID, Event{
		Type: EventLeaderboardUpdate,
		Data: AttemptData{
			AttemptID:   attempt.ID,
			QuizID:      attempt.QuizID,
			UserID:      attempt.UserID,
			Score:       attempt.Score,
			AttemptedAt: attempt.AttemptedAt,
		},
	})
	if err != nil {
		log.Warn().Err(err).Uint("quiz_id", attempt.QuizID).Msg("[Hub] Не удалось разослать попытку")
	}
}

// ClientCount возвращает число подписанных клиентов
func (h *Hub) ClientCount() int {
	return int(h.clients.Load())
}
