package handhistory

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokerdojo/betting"
	"github.com/weedbox/pokerdojo/evaluator"
	"github.com/weedbox/pokerdojo/ledger"
	"github.com/weedbox/pokerdojo/model"
)

type fakeEvaluator struct {
	scores map[string]int32
}

func (e *fakeEvaluator) Evaluate(hole []model.Card, board []model.Card) (evaluator.Result, error) {
	return evaluator.Result{
		Score:       e.scores[hole[0].String()],
		Description: "score " + hole[0].String(),
	}, nil
}

var startedAt = time.Date(2024, 3, 5, 18, 4, 5, 0, time.UTC)

func newMachine(t *testing.T, id string, maxSeats int, stacks []int64, rake ledger.RakeRule) *betting.Machine {
	names := []string{"Alice", "Bob", "Carol"}
	holes := []string{"Ah Ad", "Kh Kd", "Qh Qd"}
	seats := make([]betting.SeatSetting, 0, len(stacks))
	for i, stack := range stacks {
		seats = append(seats, betting.SeatSetting{
			Seat:      i + 1,
			PlayerID:  strings.ToLower(names[i]),
			Name:      names[i],
			Stack:     stack,
			HoleCards: model.MustParseCards(holes[i]),
		})
	}

	m, err := betting.NewMachine(betting.Options{
		HandID:     id,
		HandNumber: 1,
		TableName:  "Dojo",
		MaxSeats:   maxSeats,
		SmallBlind: 50,
		BigBlind:   100,
		ButtonSeat: 1,
		Seats:      seats,
		Deck:       model.NewDeckFromCards(model.MustParseCards("2c 7d 9s Jh 3c")),
		Evaluator:  &fakeEvaluator{scores: map[string]int32{"Ah": 30, "Kh": 20, "Qh": 10}},
		Rake:       rake,
		StartedAt:  startedAt,
	})
	require.Nil(t, err)
	require.Nil(t, m.PostBlinds())
	return m
}

func apply(t *testing.T, m *betting.Machine, playerID string, kind betting.ActionKind, amount int64) {
	_, err := m.ApplyAction(playerID, kind, amount)
	require.Nil(t, err)
	require.Nil(t, m.AdvanceAll())
}

func finalHand(t *testing.T, m *betting.Machine) *betting.Hand {
	h, err := m.Hand()
	require.Nil(t, err)
	return h
}

func TestFormatAction(t *testing.T) {
	assert.Equal(t, "checks", FormatAction(betting.Check{}))
	assert.Equal(t, "folds", FormatAction(betting.Fold{}))
	assert.Equal(t, "bets $2.00", FormatAction(betting.Bet{Amount: 200}))
	assert.Equal(t, "bets $20.00, and is all-in", FormatAction(betting.Bet{Amount: 2000, AllIn: true}))
	assert.Equal(t, "calls $0.50", FormatAction(betting.Call{Amount: 50}))
	assert.Equal(t, "calls $3.50, and is all-in", FormatAction(betting.Call{Amount: 350, AllIn: true}))
	assert.Equal(t, "raises $4.00 to $6.00", FormatAction(betting.Raise{By: 400, To: 600, Amount: 600}))
	assert.Equal(t, "raises $1.50 to $4.50, and is all-in", FormatAction(betting.Raise{By: 150, To: 450, Amount: 350, AllIn: true}))
	assert.Equal(t, "posts small blind $0.50", FormatAction(betting.PostSmallBlind{Amount: 50}))
	assert.Equal(t, "posts big blind $1.00", FormatAction(betting.PostBigBlind{Amount: 100}))
}

func TestSerialize_FoldOnFlop(t *testing.T) {
	m := newMachine(t, "1001", 2, []int64{10000, 10000}, ledger.RakeRule{Percent: 5, Cap: 100, NoFlopNoDrop: true})
	apply(t, m, "alice", betting.ActionKind_Call, 0)
	apply(t, m, "bob", betting.ActionKind_Check, 0)
	apply(t, m, "bob", betting.ActionKind_Check, 0)
	apply(t, m, "alice", betting.ActionKind_Bet, 200)
	apply(t, m, "bob", betting.ActionKind_Raise, 600)
	apply(t, m, "alice", betting.ActionKind_Fold, 0)

	expected := strings.Join([]string{
		"PokerStars Hand #1001:  Hold'em No Limit ($0.50/$1.00) - 2024/03/05 18:04:05 UTC",
		"Table 'Dojo' 2-max Seat #1 is the button",
		"Seat 1: Alice ($100.00 in chips)",
		"Seat 2: Bob ($100.00 in chips)",
		"Alice: posts small blind $0.50",
		"Bob: posts big blind $1.00",
		"*** HOLE CARDS ***",
		"Dealt to Alice [Ah Ad]",
		"Dealt to Bob [Kh Kd]",
		"Alice: calls $0.50",
		"Bob: checks",
		"*** FLOP *** [2c 7d 9s]",
		"Bob: checks",
		"Alice: bets $2.00",
		"Bob: raises $4.00 to $6.00",
		"Alice: folds",
		"Uncalled bet ($4.00) returned to Bob",
		"Bob collected $5.70 from pot",
		"Bob: doesn't show hand",
		"*** SUMMARY ***",
		"Total pot $6.00 | Rake $0.30",
		"Board [2c 7d 9s]",
		"Seat 1: Alice (button) (small blind) folded on the Flop",
		"Seat 2: Bob (big blind) collected ($5.70)",
		"",
	}, "\n")

	assert.Equal(t, expected, Serialize(finalHand(t, m)))
}

func TestSerialize_SidePotShowdown(t *testing.T) {
	m := newMachine(t, "2002", 6, []int64{1000, 3000, 10000}, ledger.RakeRule{Percent: 5, Cap: 100})
	apply(t, m, "alice", betting.ActionKind_Raise, 1000)
	apply(t, m, "bob", betting.ActionKind_Call, 0)
	apply(t, m, "carol", betting.ActionKind_Call, 0)
	apply(t, m, "bob", betting.ActionKind_Bet, 2000)
	apply(t, m, "carol", betting.ActionKind_Call, 0)
	require.Equal(t, betting.State_HandComplete, m.State())

	expected := strings.Join([]string{
		"PokerStars Hand #2002:  Hold'em No Limit ($0.50/$1.00) - 2024/03/05 18:04:05 UTC",
		"Table 'Dojo' 6-max Seat #1 is the button",
		"Seat 1: Alice ($10.00 in chips)",
		"Seat 2: Bob ($30.00 in chips)",
		"Seat 3: Carol ($100.00 in chips)",
		"Bob: posts small blind $0.50",
		"Carol: posts big blind $1.00",
		"*** HOLE CARDS ***",
		"Dealt to Alice [Ah Ad]",
		"Dealt to Bob [Kh Kd]",
		"Dealt to Carol [Qh Qd]",
		"Alice: raises $9.00 to $10.00, and is all-in",
		"Bob: calls $9.50",
		"Carol: calls $9.00",
		"*** FLOP *** [2c 7d 9s]",
		"Bob: bets $20.00, and is all-in",
		"Carol: calls $20.00",
		"*** TURN *** [2c 7d 9s] [Jh]",
		"*** RIVER *** [2c 7d 9s Jh] [3c]",
		"*** SHOW DOWN ***",
		"Alice: shows [Ah Ad] (score Ah)",
		"Bob: shows [Kh Kd] (score Kh)",
		"Carol: shows [Qh Qd] (score Qh)",
		"Alice collected $29.57 from main pot",
		"Bob collected $39.43 from side pot",
		"*** SUMMARY ***",
		"Total pot $70.00 Main pot $29.57. Side pot $39.43. | Rake $1.00",
		"Board [2c 7d 9s Jh 3c]",
		"Seat 1: Alice (button) showed [Ah Ad] and won ($29.57) with score Ah",
		"Seat 2: Bob (small blind) showed [Kh Kd] and won ($39.43) with score Kh",
		"Seat 3: Carol (big blind) showed [Qh Qd] and lost with score Qh",
		"",
	}, "\n")

	assert.Equal(t, expected, Serialize(finalHand(t, m)))
}

func TestSerialize_FoldedBeforeFlop(t *testing.T) {
	m := newMachine(t, "3003", 3, []int64{10000, 10000, 10000}, ledger.RakeRule{Percent: 5, Cap: 100, NoFlopNoDrop: true})
	apply(t, m, "alice", betting.ActionKind_Fold, 0)
	apply(t, m, "bob", betting.ActionKind_Fold, 0)
	require.Equal(t, betting.State_AllPlayersFolded, m.State())

	text := Serialize(finalHand(t, m))
	assert.Contains(t, text, "Carol: posts big blind $1.00\n")
	assert.Contains(t, text, "Bob: folds\nUncalled bet ($0.50) returned to Carol\nCarol collected $1.00 from pot\n")
	assert.Contains(t, text, "Total pot $1.00 | Rake $0.00\n")
	assert.NotContains(t, text, "Board")
	assert.Contains(t, text, "Seat 1: Alice (button) folded before Flop (didn't bet)\n")
	assert.Contains(t, text, "Seat 2: Bob (small blind) folded before Flop\n")
	assert.Contains(t, text, "Seat 3: Carol (big blind) collected ($1.00)\n")
}

func TestSerialize_Deterministic(t *testing.T) {
	m := newMachine(t, "4004", 6, []int64{1000, 3000, 10000}, ledger.RakeRule{Percent: 5, Cap: 100})
	apply(t, m, "alice", betting.ActionKind_Raise, 1000)
	apply(t, m, "bob", betting.ActionKind_Call, 0)
	apply(t, m, "carol", betting.ActionKind_Call, 0)
	apply(t, m, "bob", betting.ActionKind_Bet, 2000)
	apply(t, m, "carol", betting.ActionKind_Call, 0)

	h := finalHand(t, m)
	assert.Equal(t, Serialize(h), Serialize(h))
}

func TestSerialize_FoldFallback(t *testing.T) {
	board := model.MustParseCards("2c 7d 9s Jh 3c")
	h := &betting.Hand{
		ID:             "5005",
		TableName:      "Dojo",
		MaxSeats:       3,
		SmallBlind:     50,
		BigBlind:       100,
		StartedAt:      startedAt,
		ButtonSeat:     1,
		SmallBlindSeat: 2,
		BigBlindSeat:   3,
		Seats: []betting.HandSeat{
			{Seat: 1, PlayerID: "alice", Name: "Alice", StartingStack: 1000, HoleCards: model.MustParseCards("Ah Ad")},
			{Seat: 2, PlayerID: "bob", Name: "Bob", StartingStack: 1000, HoleCards: model.MustParseCards("Kh Kd")},
			{Seat: 3, PlayerID: "carol", Name: "Carol", StartingStack: 1000, HoleCards: model.MustParseCards("Qh Qd")},
		},
		Board: board,
		Actions: []betting.Record{
			{Seq: 1, Street: model.Preflop, PlayerID: "bob", Action: betting.PostSmallBlind{Amount: 50}},
			{Seq: 2, Street: model.Preflop, PlayerID: "alice", Action: betting.Call{Amount: 100}},
			{Seq: 3, Street: model.Preflop, PlayerID: "bob", Action: betting.Call{Amount: 50}},
			{Seq: 4, Street: model.Flop, PlayerID: "bob", Action: betting.Fold{}},
		},
		Settlement: &ledger.Settlement{
			Pot: 200,
			Awards: []ledger.Award{{
				Pot:     ledger.Pot{Amount: 200, Eligible: []string{"alice"}},
				Amount:  200,
				Winners: []string{"alice"},
				Shares:  map[string]int64{"alice": 200},
			}},
			Winnings: map[string]int64{"alice": 200},
		},
		Showdown: []betting.ShowdownHand{
			{PlayerID: "alice", Cards: model.MustParseCards("Ah Ad"), Description: "a pair of Aces"},
		},
	}

	text := Serialize(h)
	summary := text[strings.Index(text, "*** SUMMARY ***"):]

	assert.Contains(t, summary, "Seat 2: Bob (small blind) folded on the Flop\n")
	assert.Equal(t, 1, strings.Count(summary, "Seat 3: "))
	assert.Contains(t, summary, "Seat 3: Carol (big blind) folded on the Flop\n")
	assert.Contains(t, summary, "Seat 1: Alice (button) showed [Ah Ad] and won ($2.00) with a pair of Aces\n")
	assert.Equal(t, 3, strings.Count(summary, "\nSeat "))
}
