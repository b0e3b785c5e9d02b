package betting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokerdojo/evaluator"
	"github.com/weedbox/pokerdojo/ledger"
	"github.com/weedbox/pokerdojo/model"
)

type fakeEvaluator struct {
	scores map[string]int32 // key: first hole card
}

func (e *fakeEvaluator) Evaluate(hole []model.Card, board []model.Card) (evaluator.Result, error) {
	score := e.scores[hole[0].String()]
	return evaluator.Result{Score: score, Description: "score " + hole[0].String()}, nil
}

func newHeadsUpMachine(t *testing.T) *Machine {
	m, err := NewMachine(Options{
		HandID:     "1001",
		HandNumber: 1,
		TableName:  "Dojo",
		MaxSeats:   2,
		SmallBlind: 50,
		BigBlind:   100,
		ButtonSeat: 1,
		Seats: []SeatSetting{
			{Seat: 1, PlayerID: "alice", Name: "Alice", Stack: 10000, HoleCards: model.MustParseCards("Ah Ad")},
			{Seat: 2, PlayerID: "bob", Name: "Bob", Stack: 10000, HoleCards: model.MustParseCards("Kh Kd")},
		},
		Deck:      model.NewDeckFromCards(model.MustParseCards("2c 7d 9s Jh 3c")),
		Evaluator: &fakeEvaluator{scores: map[string]int32{"Ah": 20, "Kh": 10}},
	})
	require.Nil(t, err)
	return m
}

func sumStacks(m *Machine) int64 {
	var total int64
	for _, a := range m.Ledger().Accounts() {
		total += a.Stack
	}
	return total
}

func TestNewMachine_NotEnoughPlayers(t *testing.T) {
	_, err := NewMachine(Options{
		ButtonSeat: 1,
		Seats: []SeatSetting{
			{Seat: 1, PlayerID: "alice", Stack: 1000},
			{Seat: 2, PlayerID: "bob", Stack: 0},
		},
	})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestPostBlind_Order(t *testing.T) {
	m := newHeadsUpMachine(t)
	assert.Equal(t, State_AwaitingBlinds, m.State())
	assert.Equal(t, "alice", m.SmallBlindPlayer())
	assert.Equal(t, "alice", m.CurrentActor())

	_, err := m.PostBlind("bob", ActionKind_PostBigBlind)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.PostBlind("bob", ActionKind_PostSmallBlind)
	assert.ErrorIs(t, err, ErrIllegalAction)

	rec, err := m.PostBlind("alice", ActionKind_PostSmallBlind)
	require.Nil(t, err)
	assert.Equal(t, PostSmallBlind{Amount: 50}, rec.Action)
	assert.Equal(t, "bob", m.CurrentActor())

	_, err = m.ApplyAction("alice", ActionKind_Call, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = m.PostBlind("bob", ActionKind_PostBigBlind)
	require.Nil(t, err)
	assert.Equal(t, State_BettingRound, m.State())
	assert.Equal(t, "alice", m.CurrentActor())

	_, err = m.PostBlind("bob", ActionKind_PostBigBlind)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestHeadsUp_FoldOnFlop(t *testing.T) {
	m := newHeadsUpMachine(t)
	require.Nil(t, m.PostBlinds())

	_, err := m.ApplyAction("alice", ActionKind_Call, 0)
	require.Nil(t, err)
	assert.Equal(t, "bob", m.CurrentActor())

	_, err = m.ApplyAction("bob", ActionKind_Check, 0)
	require.Nil(t, err)
	assert.Equal(t, State_StreetComplete, m.State())

	require.Nil(t, m.Advance())
	assert.Equal(t, State_BettingRound, m.State())
	assert.Equal(t, model.Flop, m.Street())
	assert.Equal(t, model.MustParseCards("2c 7d 9s"), m.Board())

	// big blind acts first after the flop heads-up
	assert.Equal(t, "bob", m.CurrentActor())
	_, err = m.ApplyAction("bob", ActionKind_Check, 0)
	require.Nil(t, err)

	rec, err := m.ApplyAction("alice", ActionKind_Bet, 200)
	require.Nil(t, err)
	assert.Equal(t, Bet{Amount: 200}, rec.Action)

	rec, err = m.ApplyAction("bob", ActionKind_Raise, 600)
	require.Nil(t, err)
	assert.Equal(t, Raise{By: 400, To: 600, Amount: 600}, rec.Action)

	_, err = m.ApplyAction("alice", ActionKind_Raise, 900)
	assert.ErrorIs(t, err, ErrIllegalAction)

	rec, err = m.ApplyAction("alice", ActionKind_Fold, 0)
	require.Nil(t, err)
	assert.Equal(t, model.Flop, rec.Street)
	assert.Equal(t, State_AllPlayersFolded, m.State())

	h, err := m.Hand()
	require.Nil(t, err)
	assert.Equal(t, int64(1000), h.TotalPot)
	require.NotNil(t, h.Settlement.Refund)
	assert.Equal(t, ledger.Refund{PlayerID: "bob", Amount: 400}, *h.Settlement.Refund)
	assert.Equal(t, int64(600), h.Settlement.Pot)
	assert.Equal(t, int64(600), h.Settlement.Winnings["bob"])

	alice, _ := h.Seat("alice")
	bob, _ := h.Seat("bob")
	assert.Equal(t, int64(9700), alice.EndingStack)
	assert.Equal(t, int64(10300), bob.EndingStack)
	assert.True(t, alice.Folded)
	assert.Equal(t, int64(20000), sumStacks(m))
}

func TestIllegalCheckLeavesStateUnchanged(t *testing.T) {
	m := newHeadsUpMachine(t)
	require.Nil(t, m.PostBlinds())

	accounts := m.Ledger().Accounts()
	actions := m.Actions()
	pot := m.Ledger().TotalPot()

	_, err := m.ApplyAction("alice", ActionKind_Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	assert.Equal(t, accounts, m.Ledger().Accounts())
	assert.Equal(t, actions, m.Actions())
	assert.Equal(t, pot, m.Ledger().TotalPot())
	assert.Equal(t, State_BettingRound, m.State())
	assert.Equal(t, "alice", m.CurrentActor())
}

func TestWrongTurnAndBadAmounts(t *testing.T) {
	m := newHeadsUpMachine(t)
	require.Nil(t, m.PostBlinds())

	_, err := m.ApplyAction("bob", ActionKind_Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("zed", ActionKind_Fold, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("alice", ActionKind_Bet, 300)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("alice", ActionKind_Raise, 150)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("alice", ActionKind_Raise, 20000)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("alice", "limp", 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	rec, err := m.ApplyAction("alice", ActionKind_Raise, 200)
	require.Nil(t, err)
	assert.Equal(t, Raise{By: 100, To: 200, Amount: 150}, rec.Action)
}

func TestShortAllInDoesNotReopen(t *testing.T) {
	m, err := NewMachine(Options{
		SmallBlind: 50,
		BigBlind:   100,
		ButtonSeat: 1,
		Seats: []SeatSetting{
			{Seat: 1, PlayerID: "alice", Stack: 10000},
			{Seat: 2, PlayerID: "bob", Stack: 10000},
			{Seat: 3, PlayerID: "carol", Stack: 450},
		},
	})
	require.Nil(t, err)
	require.Nil(t, m.PostBlinds())

	assert.Equal(t, "alice", m.CurrentActor())
	_, err = m.ApplyAction("alice", ActionKind_Raise, 300)
	require.Nil(t, err)

	_, err = m.ApplyAction("bob", ActionKind_Raise, 400)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("bob", ActionKind_Call, 0)
	require.Nil(t, err)

	rec, err := m.ApplyAction("carol", ActionKind_Raise, 450)
	require.Nil(t, err)
	assert.Equal(t, Raise{By: 150, To: 450, Amount: 350, AllIn: true}, rec.Action)

	assert.Equal(t, "alice", m.CurrentActor())
	legal := m.LegalActions("alice")
	assert.ElementsMatch(t, []ActionKind{ActionKind_Fold, ActionKind_Call}, legal.Kinds)
	assert.Equal(t, int64(150), legal.CallAmount)

	_, err = m.ApplyAction("alice", ActionKind_Raise, 1000)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("alice", ActionKind_Call, 0)
	require.Nil(t, err)
	_, err = m.ApplyAction("bob", ActionKind_Call, 0)
	require.Nil(t, err)

	assert.Equal(t, State_StreetComplete, m.State())
	require.Nil(t, m.Advance())
	assert.Equal(t, State_BettingRound, m.State())
	assert.Equal(t, "bob", m.CurrentActor())
	assert.Equal(t, int64(1350), m.Ledger().TotalPot())
}

func TestShortBigBlind_PreflopCallsFullBlind(t *testing.T) {
	m, err := NewMachine(Options{
		SmallBlind: 50,
		BigBlind:   100,
		ButtonSeat: 1,
		Seats: []SeatSetting{
			{Seat: 1, PlayerID: "alice", Stack: 10000},
			{Seat: 2, PlayerID: "bob", Stack: 10000},
			{Seat: 3, PlayerID: "carol", Stack: 30},
		},
	})
	require.Nil(t, err)
	require.Nil(t, m.PostBlinds())

	assert.Equal(t, "alice", m.CurrentActor())
	legal := m.LegalActions("alice")
	assert.ElementsMatch(t, []ActionKind{ActionKind_Fold, ActionKind_Call, ActionKind_Raise}, legal.Kinds)
	assert.Equal(t, int64(100), legal.CallAmount)
	assert.Equal(t, int64(200), legal.MinRaiseTo)

	_, err = m.ApplyAction("alice", ActionKind_Raise, 150)
	assert.ErrorIs(t, err, ErrIllegalAction)
	rec, err := m.ApplyAction("alice", ActionKind_Call, 0)
	require.Nil(t, err)
	assert.Equal(t, Call{Amount: 100}, rec.Action)

	assert.Equal(t, "bob", m.CurrentActor())
	_, err = m.ApplyAction("bob", ActionKind_Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, int64(50), m.LegalActions("bob").CallAmount)
	_, err = m.ApplyAction("bob", ActionKind_Call, 0)
	require.Nil(t, err)

	assert.Equal(t, State_StreetComplete, m.State())
	assert.Equal(t, int64(230), m.Ledger().TotalPot())
}

func TestNoRaiseAgainstAllInOpponents(t *testing.T) {
	m, err := NewMachine(Options{
		SmallBlind: 50,
		BigBlind:   100,
		ButtonSeat: 1,
		Seats: []SeatSetting{
			{Seat: 1, PlayerID: "alice", Stack: 1000},
			{Seat: 2, PlayerID: "bob", Stack: 10000},
		},
	})
	require.Nil(t, err)
	require.Nil(t, m.PostBlinds())

	_, err = m.ApplyAction("alice", ActionKind_Raise, 1000)
	require.Nil(t, err)

	assert.Equal(t, "bob", m.CurrentActor())
	legal := m.LegalActions("bob")
	assert.ElementsMatch(t, []ActionKind{ActionKind_Fold, ActionKind_Call}, legal.Kinds)
	assert.Equal(t, int64(900), legal.CallAmount)
	assert.Equal(t, int64(0), legal.MinRaiseTo)

	_, err = m.ApplyAction("bob", ActionKind_Raise, 3000)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = m.ApplyAction("bob", ActionKind_Call, 0)
	require.Nil(t, err)
	assert.Equal(t, State_StreetComplete, m.State())
	assert.Equal(t, int64(2000), m.Ledger().TotalPot())
}

func TestSidePotShowdown(t *testing.T) {
	m, err := NewMachine(Options{
		HandNumber: 3,
		SmallBlind: 50,
		BigBlind:   100,
		ButtonSeat: 1,
		Seats: []SeatSetting{
			{Seat: 1, PlayerID: "alice", Name: "Alice", Stack: 1000, HoleCards: model.MustParseCards("Ah Ad")},
			{Seat: 2, PlayerID: "bob", Name: "Bob", Stack: 3000, HoleCards: model.MustParseCards("Kh Kd")},
			{Seat: 3, PlayerID: "carol", Name: "Carol", Stack: 10000, HoleCards: model.MustParseCards("Qh Qd")},
		},
		Deck:      model.NewDeckFromCards(model.MustParseCards("2c 7d 9s Jh 3c")),
		Evaluator: &fakeEvaluator{scores: map[string]int32{"Ah": 30, "Kh": 20, "Qh": 10}},
		Rake:      ledger.RakeRule{Percent: 5, Cap: 100},
	})
	require.Nil(t, err)
	require.Nil(t, m.PostBlinds())

	_, err = m.ApplyAction("alice", ActionKind_Raise, 1000)
	require.Nil(t, err)
	_, err = m.ApplyAction("bob", ActionKind_Call, 0)
	require.Nil(t, err)
	_, err = m.ApplyAction("carol", ActionKind_Call, 0)
	require.Nil(t, err)
	require.Nil(t, m.Advance())

	assert.Equal(t, "bob", m.CurrentActor())
	_, err = m.ApplyAction("bob", ActionKind_Bet, 2000)
	require.Nil(t, err)
	_, err = m.ApplyAction("carol", ActionKind_Call, 0)
	require.Nil(t, err)

	require.Nil(t, m.AdvanceAll())
	assert.Equal(t, State_HandComplete, m.State())
	assert.Len(t, m.Board(), 5)

	h, err := m.Hand()
	require.Nil(t, err)
	require.Len(t, h.Settlement.Awards, 2)
	assert.Equal(t, []string{"alice", "bob", "carol"}, h.Settlement.Awards[0].Pot.Eligible)
	assert.Equal(t, []string{"bob", "carol"}, h.Settlement.Awards[1].Pot.Eligible)
	assert.Equal(t, int64(100), h.Settlement.Rake)
	assert.Equal(t, int64(43), h.Settlement.Awards[0].Rake)
	assert.Equal(t, int64(57), h.Settlement.Awards[1].Rake)
	assert.Equal(t, int64(2957), h.Settlement.Winnings["alice"])
	assert.Equal(t, int64(3943), h.Settlement.Winnings["bob"])
	assert.Len(t, h.Showdown, 3)

	var paid int64
	for _, amount := range h.Settlement.Winnings {
		paid += amount
	}
	assert.Equal(t, h.TotalPot, paid+h.Settlement.Rake)
	assert.Equal(t, int64(14000), sumStacks(m)+h.Settlement.Rake)
}

func TestUnsettledStreetAbortsHand(t *testing.T) {
	m := newHeadsUpMachine(t)
	require.Nil(t, m.PostBlinds())
	_, err := m.ApplyAction("alice", ActionKind_Call, 0)
	require.Nil(t, err)
	_, err = m.ApplyAction("bob", ActionKind_Check, 0)
	require.Nil(t, err)

	require.Nil(t, m.Ledger().Contribute("alice", 10))

	err = m.Advance()
	assert.ErrorIs(t, err, ledger.ErrUnsettledStreet)
	assert.Equal(t, State_Aborted, m.State())
	assert.Equal(t, int64(20000), sumStacks(m))

	_, err = m.Hand()
	assert.ErrorIs(t, err, ErrHandAborted)
}

func TestAdvance_InvalidState(t *testing.T) {
	m := newHeadsUpMachine(t)
	assert.ErrorIs(t, m.Advance(), ErrInvalidState)

	_, err := m.Hand()
	assert.ErrorIs(t, err, ErrHandNotFinished)
}
