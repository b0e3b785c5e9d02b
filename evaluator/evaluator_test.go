package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokerdojo/model"
)

func TestEvaluate_Ordering(t *testing.T) {
	e := NewEvaluator()
	board := model.MustParseCards("Ah Kd 7c 2s 9h")

	pair, err := e.Evaluate(model.MustParseCards("Ac 3d"), board)
	require.Nil(t, err)
	twoPair, err := e.Evaluate(model.MustParseCards("As Kc"), board)
	require.Nil(t, err)
	highCard, err := e.Evaluate(model.MustParseCards("4c 5d"), board)
	require.Nil(t, err)

	assert.Greater(t, twoPair.Score, pair.Score)
	assert.Greater(t, pair.Score, highCard.Score)
	assert.NotEmpty(t, pair.Description)
}

func TestEvaluate_InvalidHand(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Evaluate(model.MustParseCards("Ac"), model.MustParseCards("Ah Kd 7c 2s 9h"))
	assert.ErrorIs(t, err, ErrInvalidHand)
}

func TestWinners(t *testing.T) {
	results := map[string]Result{
		"alice": {Score: 10},
		"bob":   {Score: 30},
		"carol": {Score: 30},
	}
	assert.Equal(t, []string{"bob", "carol"}, Winners(results, []string{"alice", "bob", "carol"}))
	assert.Equal(t, []string{"alice"}, Winners(results, []string{"alice"}))
	assert.Empty(t, Winners(results, []string{"zed"}))
}
