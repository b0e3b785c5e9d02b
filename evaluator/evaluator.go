package evaluator

import (
	"errors"
	"fmt"

	"github.com/paulhankin/poker"
	"github.com/weedbox/pokerdojo/model"
)

var (
	ErrInvalidHand = errors.New("evaluator: hand needs two hole cards and five board cards")
)

type Result struct {
	Score       int32  `json:"score"` // higher is better
	Description string `json:"description"`
}

type Evaluator interface {
	Evaluate(hole []model.Card, board []model.Card) (Result, error)
}

type sevenCardEvaluator struct{}

// NewEvaluator returns the seven-card evaluator used at showdown.
func NewEvaluator() Evaluator {
	return &sevenCardEvaluator{}
}

func (e *sevenCardEvaluator) Evaluate(hole []model.Card, board []model.Card) (Result, error) {
	if len(hole) != 2 || len(board) != 5 {
		return Result{}, ErrInvalidHand
	}

	var hand [7]poker.Card
	for i, c := range append(append([]model.Card{}, board...), hole...) {
		pc, err := toPokerCard(c)
		if err != nil {
			return Result{}, err
		}
		hand[i] = pc
	}

	desc, err := poker.Describe(hand[:])
	if err != nil {
		return Result{}, fmt.Errorf("evaluator: describe: %w", err)
	}

	return Result{
		Score:       int32(poker.Eval7(&hand)),
		Description: desc,
	}, nil
}

func toPokerCard(c model.Card) (poker.Card, error) {
	if !c.Valid() {
		var zero poker.Card
		return zero, fmt.Errorf("%w: %v", model.ErrInvalidCard, c)
	}

	// the library orders suits club, diamond, heart, spade and ranks aces as 1
	rank := poker.Rank(c.Rank)
	if c.Rank == model.Ace {
		rank = poker.Rank(1)
	}

	return poker.MakeCard(poker.Suit(c.Suit), rank)
}

// Winners returns the ids holding the best result among the candidates.
func Winners(results map[string]Result, candidates []string) []string {
	var best int32
	winners := make([]string, 0)
	for _, id := range candidates {
		r, ok := results[id]
		if !ok {
			continue
		}
		switch {
		case len(winners) == 0 || r.Score > best:
			best = r.Score
			winners = []string{id}
		case r.Score == best:
			winners = append(winners, id)
		}
	}
	return winners
}
