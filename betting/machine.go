package betting

import (
	"errors"
	"fmt"
	"time"

	"github.com/weedbox/pokerdojo/evaluator"
	"github.com/weedbox/pokerdojo/ledger"
	"github.com/weedbox/pokerdojo/model"
)

var (
	ErrIllegalAction    = errors.New("betting: illegal action")
	ErrInvalidState     = errors.New("betting: invalid state")
	ErrNotEnoughPlayers = errors.New("betting: at least two players with chips are required")
	ErrInvalidButton    = errors.New("betting: button seat is not dealt in")
	ErrHandNotFinished  = errors.New("betting: hand not finished")
	ErrHandAborted      = errors.New("betting: hand aborted")
)

type SeatSetting struct {
	Seat      int          `json:"seat"` // 1..N
	PlayerID  string       `json:"player_id"`
	Name      string       `json:"name"`
	Stack     int64        `json:"stack"`
	HoleCards []model.Card `json:"hole_cards,omitempty"` // dealt from the deck when empty
}

type Options struct {
	HandID     string
	HandNumber int
	TableName  string
	MaxSeats   int
	SmallBlind int64
	BigBlind   int64
	ButtonSeat int
	Seats      []SeatSetting // seat order, only seats dealt in
	Deck       *model.Deck   // shuffled by the caller
	Evaluator  evaluator.Evaluator
	Rake       ledger.RakeRule
	StartedAt  time.Time
}

type player struct {
	seat          int
	id            string
	name          string
	startingStack int64
	holeCards     []model.Card
}

// Machine drives one hand from blind posting to a terminal state.
type Machine struct {
	opts      Options
	state     State
	street    model.Street
	ledger    *ledger.Ledger
	players   []*player
	board     []model.Card
	actions   []Record
	buttonIdx int
	sbIdx     int
	bbIdx     int
	actorIdx  int
	pending   map[string]bool // still owes an action on this street
	mayRaise  map[string]bool // action is open to a raise
	minRaise  int64
	showdown  map[string]evaluator.Result
	result    *ledger.Settlement
	abortErr  error
}

func NewMachine(opts Options) (*Machine, error) {
	seats := make([]SeatSetting, 0, len(opts.Seats))
	for _, s := range opts.Seats {
		if s.Stack > 0 {
			seats = append(seats, s)
		}
	}
	if len(seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	if opts.Deck == nil {
		opts.Deck = model.NewDeck()
	}
	if opts.Evaluator == nil {
		opts.Evaluator = evaluator.NewEvaluator()
	}
	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now().UTC()
	}

	m := &Machine{
		opts:      opts,
		state:     State_AwaitingBlinds,
		street:    model.Preflop,
		players:   make([]*player, 0, len(seats)),
		board:     make([]model.Card, 0, 5),
		actions:   make([]Record, 0),
		buttonIdx: -1,
		pending:   make(map[string]bool),
		mayRaise:  make(map[string]bool),
	}

	participants := make([]ledger.Participant, 0, len(seats))
	for idx, s := range seats {
		m.players = append(m.players, &player{
			seat:          s.Seat,
			id:            s.PlayerID,
			name:          s.Name,
			startingStack: s.Stack,
			holeCards:     s.HoleCards,
		})
		participants = append(participants, ledger.Participant{ID: s.PlayerID, Stack: s.Stack})
		if s.Seat == opts.ButtonSeat {
			m.buttonIdx = idx
		}
	}
	if m.buttonIdx < 0 {
		return nil, ErrInvalidButton
	}

	l, err := ledger.New(participants)
	if err != nil {
		return nil, err
	}
	m.ledger = l

	// heads-up: the button posts the small blind
	if len(m.players) == 2 {
		m.sbIdx = m.buttonIdx
	} else {
		m.sbIdx = m.nextIdx(m.buttonIdx)
	}
	m.bbIdx = m.nextIdx(m.sbIdx)

	if err := m.dealHoleCards(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Street() model.Street {
	return m.street
}

func (m *Machine) Board() []model.Card {
	board := make([]model.Card, len(m.board))
	copy(board, m.board)
	return board
}

func (m *Machine) Actions() []Record {
	actions := make([]Record, len(m.actions))
	copy(actions, m.actions)
	return actions
}

func (m *Machine) Ledger() *ledger.Ledger {
	return m.ledger
}

// CurrentActor returns the player expected to act, or an empty string.
func (m *Machine) CurrentActor() string {
	switch m.state {
	case State_AwaitingBlinds:
		if m.blindPosted(ActionKind_PostSmallBlind) {
			return m.players[m.bbIdx].id
		}
		return m.players[m.sbIdx].id
	case State_BettingRound:
		return m.players[m.actorIdx].id
	}
	return ""
}

func (m *Machine) SmallBlindPlayer() string {
	return m.players[m.sbIdx].id
}

func (m *Machine) BigBlindPlayer() string {
	return m.players[m.bbIdx].id
}

/*
PostBlind posts a forced blind for the player.
  - Legal only while awaiting blinds: small blind first, then big blind.
  - A short stack posts what it has and is all-in.
*/
func (m *Machine) PostBlind(playerID string, kind ActionKind) (Record, error) {
	if m.state != State_AwaitingBlinds {
		return Record{}, fmt.Errorf("%w: blinds already posted", ErrIllegalAction)
	}

	var expectedIdx int
	var blind int64
	switch kind {
	case ActionKind_PostSmallBlind:
		if m.blindPosted(ActionKind_PostSmallBlind) {
			return Record{}, fmt.Errorf("%w: small blind already posted", ErrIllegalAction)
		}
		expectedIdx, blind = m.sbIdx, m.opts.SmallBlind
	case ActionKind_PostBigBlind:
		if !m.blindPosted(ActionKind_PostSmallBlind) {
			return Record{}, fmt.Errorf("%w: small blind not posted", ErrIllegalAction)
		}
		expectedIdx, blind = m.bbIdx, m.opts.BigBlind
	default:
		return Record{}, fmt.Errorf("%w: %s is not a blind", ErrIllegalAction, kind)
	}

	if m.players[expectedIdx].id != playerID {
		return Record{}, fmt.Errorf("%w: %s does not post the %s", ErrIllegalAction, playerID, kind)
	}

	acct, err := m.ledger.Account(playerID)
	if err != nil {
		return Record{}, err
	}
	amount := min(blind, acct.Stack)
	allIn := amount == acct.Stack

	var action Action
	if kind == ActionKind_PostSmallBlind {
		action = PostSmallBlind{Amount: amount, AllIn: allIn}
	} else {
		action = PostBigBlind{Amount: amount, AllIn: allIn}
	}

	if err := m.ledger.Contribute(playerID, amount); err != nil {
		return Record{}, err
	}
	rec := m.appendRecord(playerID, action)

	if kind == ActionKind_PostBigBlind {
		m.startRound()
	}

	return rec, nil
}

// PostBlinds posts both blinds in order.
func (m *Machine) PostBlinds() error {
	if _, err := m.PostBlind(m.players[m.sbIdx].id, ActionKind_PostSmallBlind); err != nil {
		return err
	}
	_, err := m.PostBlind(m.players[m.bbIdx].id, ActionKind_PostBigBlind)
	return err
}

/*
ApplyAction applies a player decision in the current betting round.
  - amount is the resulting street total for bet and raise and is ignored otherwise.
  - Violations return ErrIllegalAction and leave the hand untouched.
*/
func (m *Machine) ApplyAction(playerID string, kind ActionKind, amount int64) (Record, error) {
	action, err := m.validate(playerID, kind, amount)
	if err != nil {
		return Record{}, err
	}

	highest := m.currentBet()

	if c := action.Contributed(); c > 0 {
		if err := m.ledger.Contribute(playerID, c); err != nil {
			return Record{}, err
		}
	}
	if kind == ActionKind_Fold {
		if err := m.ledger.Fold(playerID); err != nil {
			return Record{}, err
		}
	}

	rec := m.appendRecord(playerID, action)
	delete(m.pending, playerID)
	m.mayRaise[playerID] = false

	if newHighest := m.currentBet(); newHighest > highest {
		increment := newHighest - highest
		full := increment >= m.minRaise
		if full {
			m.minRaise = increment
		}
		for _, p := range m.players {
			if p.id == playerID || !m.canAct(p.id) {
				continue
			}
			m.pending[p.id] = true
			if full {
				m.mayRaise[p.id] = true
			}
		}
	}

	m.afterAction()
	return rec, nil
}

// Advance steps out of StreetComplete (next street or showdown) and out of Showdown.
func (m *Machine) Advance() error {
	switch m.state {
	case State_StreetComplete:
		if err := m.ledger.CloseStreet(); err != nil {
			m.abort(err)
			return err
		}

		if m.street == model.River {
			m.state = State_Showdown
			return nil
		}

		m.street = m.street.Next()
		if err := m.dealBoard(); err != nil {
			m.abort(err)
			return err
		}
		m.startRound()
		return nil

	case State_Showdown:
		return m.resolveShowdown()
	}

	return fmt.Errorf("%w: cannot advance from %s", ErrInvalidState, m.state)
}

// AdvanceAll advances until the hand waits for a player or is finished.
func (m *Machine) AdvanceAll() error {
	for m.state == State_StreetComplete || m.state == State_Showdown {
		if err := m.Advance(); err != nil {
			return err
		}
	}
	return nil
}

type LegalActions struct {
	Kinds      []ActionKind `json:"kinds"`
	CallAmount int64        `json:"call_amount"`  // chips needed to call, capped to the stack
	MinRaiseTo int64        `json:"min_raise_to"` // smallest legal bet/raise total
	MaxRaiseTo int64        `json:"max_raise_to"` // all-in total
}

// LegalActions lists what the player may do right now; empty when it is not their turn.
func (m *Machine) LegalActions(playerID string) LegalActions {
	legal := LegalActions{Kinds: make([]ActionKind, 0)}
	if m.state != State_BettingRound || m.players[m.actorIdx].id != playerID {
		return legal
	}

	acct, _ := m.ledger.Account(playerID)
	highest := m.currentBet()
	toCall := highest - acct.Street
	maxTotal := acct.Street + acct.Stack

	legal.Kinds = append(legal.Kinds, ActionKind_Fold)
	if toCall <= 0 {
		legal.Kinds = append(legal.Kinds, ActionKind_Check)
	} else {
		legal.Kinds = append(legal.Kinds, ActionKind_Call)
		legal.CallAmount = min(toCall, acct.Stack)
	}

	// raising needs an opponent who can still answer
	if maxTotal > highest && m.mayRaise[playerID] && len(m.actingIDs()) > 1 {
		legal.MinRaiseTo = min(highest+m.minRaise, maxTotal)
		legal.MaxRaiseTo = maxTotal
		if highest == 0 {
			legal.Kinds = append(legal.Kinds, ActionKind_Bet)
		} else {
			legal.Kinds = append(legal.Kinds, ActionKind_Raise)
		}
	}

	return legal
}
