package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время ожидания следующего pong от клиента.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Лента только для чтения, входящие сообщения маленькие
	maxMessageSize = 512

	defaultClientBufferSize = 32
)

// Client - подписчик лидерборда одной викторины
type Client struct {
	// ID - уникальный ID соединения
	ID        string
	AccountID uint
	QuizID    uint

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient создает клиента для соединения
func NewClient(hub *Hub, conn *websocket.Conn, accountID, quizID uint) *Client {
	return &Client{
		ID:        uuid.New().String(),
		AccountID: accountID,
		QuizID:    quizID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, defaultClientBufferSize),
	}
}

// Serve подписывает клиента и блокируется до закрытия соединения
func (c *Client) Serve() {
	// Подтверждение кладется до регистрации, пока канал принадлежит только клиенту
	ack, _ := json.Marshal(Event{Type: EventSubscribed, Data: map[string]uint{"quiz_id": c.QuizID}})
	c.send <- ack

	if !c.hub.Register(c) {
		_ = c.conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

// readPump читает управляющие кадры и ловит закрытие соединения
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
		log.Debug().Str("conn_id", c.ID).Uint("account_id", c.AccountID).Msg("[WS] Read pump остановлен")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn_id", c.ID).Msg("[WS] Ошибка чтения")
			}
			return
		}
		// Входящие сообщения клиента не обрабатываются
	}
}

// writePump отправляет события из канала send и ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Хаб закрыл канал клиента
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("conn_id", c.ID).Msg("[WS] Ошибка записи")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
