package service

import (
	"fmt"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// CompositionPolicy ограничивает состав вопросов викторины.
// При Enforce == false проверки не выполняются.
type CompositionPolicy struct {
	Enforce       bool
	MaxQuestions  int
	PerDifficulty map[entity.Difficulty]int
}

// DefaultCompositionPolicy - 10 вопросов: 5 легких, 3 средних, 2 сложных; проверка выключена
func DefaultCompositionPolicy() CompositionPolicy {
	return CompositionPolicy{
		Enforce:      false,
		MaxQuestions: 10,
		PerDifficulty: map[entity.Difficulty]int{
			entity.DifficultyEasy:   5,
			entity.DifficultyMedium: 3,
			entity.DifficultyHard:   2,
		},
	}
}

// CheckAdd проверяет, можно ли добавить вопрос сложности d к текущему составу
func (p CompositionPolicy) CheckAdd(counts map[entity.Difficulty]int, d entity.Difficulty) error {
	if !p.Enforce {
		return nil
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if p.MaxQuestions > 0 && total+1 > p.MaxQuestions {
		return fmt.Errorf("%w: quiz cannot have more than %d questions", apperrors.ErrValidation, p.MaxQuestions)
	}
	return p.checkDifficulty(counts, d)
}

// CheckChange проверяет смену сложности вопроса с from на to
func (p CompositionPolicy) CheckChange(counts map[entity.Difficulty]int, from, to entity.Difficulty) error {
	if !p.Enforce || from == to {
		return nil
	}

	adjusted := make(map[entity.Difficulty]int, len(counts))
	for d, n := range counts {
		adjusted[d] = n
	}
	if adjusted[from] > 0 {
		adjusted[from]--
	}
	return p.checkDifficulty(adjusted, to)
}

func (p CompositionPolicy) checkDifficulty(counts map[entity.Difficulty]int, d entity.Difficulty) error {
	limit, ok := p.PerDifficulty[d]
	if !ok {
		return nil
	}
	if counts[d]+1 > limit {
		return fmt.Errorf("%w: quiz cannot have more than %d %s questions", apperrors.ErrValidation, limit, d)
	}
	return nil
}
