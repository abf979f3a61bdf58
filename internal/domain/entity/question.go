package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Difficulty - сложность вопроса
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid проверяет, что значение входит в перечисление
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte or string")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос викторины
type Question struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	QuizID     uint        `gorm:"not null;index" json:"quiz_id"`
	Text       string      `gorm:"size:500;not null" json:"text"`
	Difficulty Difficulty  `gorm:"size:10;not null;default:'MEDIUM'" json:"difficulty"`
	Options    StringArray `gorm:"type:jsonb;not null" json:"options"`
	// Answer - индекс правильного варианта в Options
	Answer    int       `gorm:"not null" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.Answer
}

// Validate проверяет согласованность вариантов, ответа и сложности
func (q *Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("question must have at least 2 options, got %d", len(q.Options))
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("answer index %d is out of range [0, %d)", q.Answer, len(q.Options))
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	return nil
}
