package helper

import (
	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

// QuestionOption представляет вариант ответа для фронтенда
type QuestionOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ConvertOptionsToObjects преобразует массив строк в массив объектов с id и text.
// ID совпадает с индексом, который участник отправляет в ответах.
func ConvertOptionsToObjects(options entity.StringArray) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		if opt == "" {
			opt = "(пустой вариант)"
		}
		converted[i] = QuestionOption{ID: i, Text: opt}
	}
	return converted
}

// ParseAnswerInputs переводит ответы с ключами-строками в id вопросов.
// Нечисловые ключи пропускаются.
func ParseAnswerInputs(inputs map[string]int) map[uint]int {
	answers := make(map[uint]int, len(inputs))
	for key, option := range inputs {
		id, ok := parseID(key)
		if !ok {
			continue
		}
		answers[id] = option
	}
	return answers
}
