package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weedbox/pokerdojo"
)

func TestTableGame_Flop_Settlement(t *testing.T) {
	table := NewHeadsUp(t, pokerdojo.NewDefaultSessionSetting(), "Kd Ah Kc As 2h 7d 9c Js 3d")

	// preflop
	table.Act("alice", pokerdojo.PlayerAction_Call, 0)
	table.Act("bob", pokerdojo.PlayerAction_Check, 0)
	flop := table.WaitUpdate("Bob: checks")
	assert.Equal(t, "flop", flop.Street)
	assert.Equal(t, int64(200), flop.Pot)

	// flop: the big blind acts first
	table.Act("bob", pokerdojo.PlayerAction_Bet, 200)
	table.Act("alice", pokerdojo.PlayerAction_Fold, 0)
	table.WaitUpdate("Alice: folds")

	completed := table.WaitCompleted()
	assert.Equal(t, int64(10), completed.Rake)
	assert.Equal(t, int64(190), completed.Winnings["bob"])
	assert.Contains(t, completed.History, "*** FLOP *** [2h 7d 9c]")
	assert.Contains(t, completed.History, "Uncalled bet ($2.00) returned to Bob")
	assert.Contains(t, completed.History, "Bob collected $1.90 from pot")
	assert.Contains(t, completed.History, "Total pot $2.00 | Rake $0.10")
	assert.Contains(t, completed.History, "Seat 1: Alice (button) (small blind) folded on the Flop")
	assert.NotContains(t, completed.History, "*** TURN ***")

	assert.Equal(t, int64(9900), table.Stack("alice"))
	assert.Equal(t, int64(10090), table.Stack("bob"))
}
