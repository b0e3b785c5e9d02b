package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weedbox/pokerdojo"
)

func TestTableGame_Turn_AllIn_KnocksOut(t *testing.T) {
	table := NewHeadsUp(t, pokerdojo.NewDefaultSessionSetting(), "Kd Ah Kc As 2h 7d 9c Js 3d")

	table.Act("alice", pokerdojo.PlayerAction_Call, 0)
	table.Act("bob", pokerdojo.PlayerAction_Check, 0)
	table.Act("bob", pokerdojo.PlayerAction_Check, 0)
	table.Act("alice", pokerdojo.PlayerAction_Check, 0)

	// turn: the allin shortcut becomes a bet of the whole stack
	table.Act("bob", pokerdojo.PlayerAction_Check, 0)
	table.Act("alice", pokerdojo.PlayerAction_AllIn, 0)
	shove := table.WaitUpdate("Alice: bets $99.00, and is all-in")
	assert.Equal(t, "bob", shove.CurrentPlayer)
	assert.Equal(t, int64(9900), shove.LegalActions.CallAmount)

	table.Act("bob", pokerdojo.PlayerAction_Call, 0)

	completed := table.WaitCompleted()
	assert.Equal(t, int64(100), completed.Rake, "rake is capped")
	assert.Equal(t, int64(19900), completed.Winnings["alice"])
	assert.Contains(t, completed.History, "Seat 2: Bob (big blind) showed [Kd Kc] and lost with")

	ended := table.WaitEnded()
	assert.Equal(t, pokerdojo.EndReason_NotEnoughChips, ended.Reason)
	assert.Equal(t, 1, ended.HandsPlayed)
	assert.Equal(t, int64(19900), table.Stack("alice"))
	assert.Equal(t, int64(0), table.Stack("bob"))
}
