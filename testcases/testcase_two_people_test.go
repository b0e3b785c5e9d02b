package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weedbox/pokerdojo"
)

func TestTableGame_TwoPeople_ButtonRotates(t *testing.T) {
	table := NewHeadsUp(t, pokerdojo.NewDefaultSessionSetting(), "Kd Ah Kc As 2h 7d 9c Js 3d")

	// hand 1: Alice on the button
	table.Act("alice", pokerdojo.PlayerAction_Fold, 0)
	first := table.WaitCompleted()
	assert.Equal(t, 1, first.HandNumber)
	assert.Contains(t, first.History, "Seat #1 is the button")

	// hand 2: Bob on the button, posts the small blind and acts first
	table.ReadyAll()
	opened := table.WaitUpdate("Hand #2 started")
	assert.Equal(t, 2, opened.HandNumber)
	assert.Equal(t, "bob", opened.CurrentPlayer)
	assert.Equal(t, int64(9850), opened.Stacks["alice"])
	assert.Equal(t, int64(10000), opened.Stacks["bob"])

	// out of turn
	assert.Error(t, table.Engine.PlayerAction("alice", pokerdojo.PlayerAction_Check, 0))
	rejected := table.WaitRejected()
	assert.Equal(t, "alice", rejected.PlayerID)

	table.Act("bob", pokerdojo.PlayerAction_Fold, 0)
	second := table.WaitCompleted()
	assert.Equal(t, 2, second.HandNumber)
	assert.NotEqual(t, first.HandID, second.HandID)
	assert.Contains(t, second.History, "Seat #2 is the button")
	assert.Contains(t, second.History, "Dealt to Bob [Ah As]")
	assert.Equal(t, int64(100), second.Winnings["alice"])

	assert.Equal(t, int64(10000), table.Stack("alice"))
	assert.Equal(t, int64(10000), table.Stack("bob"))

	assert.NoError(t, table.Engine.EndSession())
	ended := table.WaitEnded()
	assert.Equal(t, pokerdojo.EndReason_Requested, ended.Reason)
	assert.Equal(t, 2, ended.HandsPlayed)
}
