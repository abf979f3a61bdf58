package websocket

import (
	"time"
)

// Типы событий живого лидерборда
const (
	// EventLeaderboardUpdate сообщает о новой попытке в викторине
	EventLeaderboardUpdate = "leaderboard_update"

	// EventSubscribed подтверждает подписку на викторину
	EventSubscribed = "subscribed"
)

// Event - сообщение, отправляемое клиенту
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// AttemptData - содержимое события leaderboard_update
type AttemptData struct {
	AttemptID   uint      `json:"attempt_id"`
	QuizID      uint      `json:"quiz_id"`
	UserID      uint      `json:"user_id"`
	Score       int       `json:"score"`
	AttemptedAt time.Time `json:"attempted_at"`
}
