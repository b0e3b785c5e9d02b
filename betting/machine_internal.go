package betting

import (
	"fmt"

	"github.com/thoas/go-funk"
	"github.com/weedbox/pokerdojo/evaluator"
	"github.com/weedbox/pokerdojo/model"
)

func (m *Machine) validate(playerID string, kind ActionKind, amount int64) (Action, error) {
	if m.state != State_BettingRound {
		return nil, fmt.Errorf("%w: no betting round in progress (%s)", ErrIllegalAction, m.state)
	}

	if m.playerIdx(playerID) < 0 {
		return nil, fmt.Errorf("%w: %s is not in the hand", ErrIllegalAction, playerID)
	}

	if m.players[m.actorIdx].id != playerID {
		return nil, fmt.Errorf("%w: not %s's turn", ErrIllegalAction, playerID)
	}

	acct, err := m.ledger.Account(playerID)
	if err != nil {
		return nil, err
	}
	highest := m.currentBet()
	toCall := highest - acct.Street
	maxTotal := acct.Street + acct.Stack
	aggressive := kind == ActionKind_Bet || kind == ActionKind_Raise
	if aggressive && len(m.actingIDs()) <= 1 {
		return nil, fmt.Errorf("%w: nobody left to bet against", ErrIllegalAction)
	}

	switch kind {
	case ActionKind_Check:
		if toCall > 0 {
			return nil, fmt.Errorf("%w: cannot check facing %d", ErrIllegalAction, toCall)
		}
		return Check{}, nil

	case ActionKind_Call:
		if toCall <= 0 {
			return nil, fmt.Errorf("%w: nothing to call", ErrIllegalAction)
		}
		pay := min(toCall, acct.Stack)
		return Call{Amount: pay, AllIn: pay == acct.Stack}, nil

	case ActionKind_Bet:
		if highest > 0 {
			return nil, fmt.Errorf("%w: facing a bet, raise instead", ErrIllegalAction)
		}
		if amount <= 0 || amount > maxTotal {
			return nil, fmt.Errorf("%w: bet of %d outside 1..%d", ErrIllegalAction, amount, maxTotal)
		}
		if amount < m.minRaise && amount != maxTotal {
			return nil, fmt.Errorf("%w: bet of %d below minimum %d", ErrIllegalAction, amount, m.minRaise)
		}
		return Bet{Amount: amount - acct.Street, AllIn: amount == maxTotal}, nil

	case ActionKind_Raise:
		if highest == 0 {
			return nil, fmt.Errorf("%w: nothing to raise, bet instead", ErrIllegalAction)
		}
		if !m.mayRaise[playerID] {
			return nil, fmt.Errorf("%w: betting was not reopened", ErrIllegalAction)
		}
		if amount <= highest || amount > maxTotal {
			return nil, fmt.Errorf("%w: raise to %d outside %d..%d", ErrIllegalAction, amount, highest+1, maxTotal)
		}
		by := amount - highest
		if by < m.minRaise && amount != maxTotal {
			return nil, fmt.Errorf("%w: raise of %d below minimum %d", ErrIllegalAction, by, m.minRaise)
		}
		return Raise{By: by, To: amount, Amount: amount - acct.Street, AllIn: amount == maxTotal}, nil

	case ActionKind_Fold:
		return Fold{}, nil
	}

	return nil, fmt.Errorf("%w: unknown action %q", ErrIllegalAction, kind)
}

// currentBet is the street total a player has to match. Preflop it never drops below the
// big blind, even when the big blind is posted all-in for less.
func (m *Machine) currentBet() int64 {
	highest := m.ledger.HighestStreetContribution()
	if m.street == model.Preflop && highest < m.opts.BigBlind {
		return m.opts.BigBlind
	}
	return highest
}

func (m *Machine) appendRecord(playerID string, action Action) Record {
	rec := Record{
		Seq:      len(m.actions) + 1,
		Street:   m.street,
		PlayerID: playerID,
		Action:   action,
	}
	m.actions = append(m.actions, rec)
	return rec
}

func (m *Machine) blindPosted(kind ActionKind) bool {
	for _, rec := range m.actions {
		if rec.Action.Kind() == kind {
			return true
		}
	}
	return false
}

func (m *Machine) playerIdx(playerID string) int {
	for idx, p := range m.players {
		if p.id == playerID {
			return idx
		}
	}
	return -1
}

func (m *Machine) nextIdx(idx int) int {
	return (idx + 1) % len(m.players)
}

func (m *Machine) canAct(playerID string) bool {
	acct, err := m.ledger.Account(playerID)
	if err != nil {
		return false
	}
	return !acct.Folded && !acct.AllIn
}

func (m *Machine) liveIDs() []string {
	ids := make([]string, 0, len(m.players))
	for _, a := range m.ledger.Accounts() {
		if !a.Folded {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (m *Machine) actingIDs() []string {
	return funk.FilterString(m.liveIDs(), m.canAct)
}

// startRound opens betting on the current street. Streets where fewer than two players
// can act are dealt through without betting.
func (m *Machine) startRound() {
	m.pending = make(map[string]bool)
	m.mayRaise = make(map[string]bool)
	m.minRaise = m.opts.BigBlind

	acting := m.actingIDs()
	for _, id := range acting {
		m.pending[id] = true
		m.mayRaise[id] = true
	}

	// preflop starts left of the big blind (the button heads-up), later streets left of the button
	firstIdx := m.nextIdx(m.buttonIdx)
	if m.street == model.Preflop {
		firstIdx = m.nextIdx(m.bbIdx)
	}

	m.state = State_BettingRound
	m.actorIdx = m.prevIdx(firstIdx)
	if !m.roundNeedsAction() {
		m.state = State_StreetComplete
		return
	}
	m.advanceActor()
}

func (m *Machine) prevIdx(idx int) int {
	return (idx - 1 + len(m.players)) % len(m.players)
}

// roundNeedsAction reports whether anyone still has a meaningful decision this street.
func (m *Machine) roundNeedsAction() bool {
	for id := range m.pending {
		if !m.canAct(id) {
			delete(m.pending, id)
		}
	}
	if len(m.pending) == 0 {
		return false
	}

	acting := m.actingIDs()
	if len(acting) == 0 {
		return false
	}
	if len(acting) == 1 {
		// nobody left to bet against; only a call of an all-in remains
		acct, _ := m.ledger.Account(acting[0])
		return acct.Street < m.ledger.HighestStreetContribution()
	}
	return true
}

func (m *Machine) advanceActor() {
	for i := 1; i <= len(m.players); i++ {
		idx := (m.actorIdx + i) % len(m.players)
		if m.pending[m.players[idx].id] {
			m.actorIdx = idx
			return
		}
	}
}

func (m *Machine) afterAction() {
	if len(m.liveIDs()) == 1 {
		m.finishFoldOut()
		return
	}

	if !m.roundNeedsAction() {
		m.state = State_StreetComplete
		return
	}
	m.advanceActor()
}

func (m *Machine) dealHoleCards() error {
	preset := make([]model.Card, 0)
	for _, p := range m.players {
		preset = append(preset, p.holeCards...)
	}
	if len(preset) > 0 {
		m.opts.Deck.Exclude(preset)
	}

	// one card at a time starting left of the button
	for round := 0; round < 2; round++ {
		for i := 1; i <= len(m.players); i++ {
			p := m.players[(m.buttonIdx+i)%len(m.players)]
			if len(p.holeCards) >= 2 {
				continue
			}
			cards, err := m.opts.Deck.Draw(1)
			if err != nil {
				return err
			}
			p.holeCards = append(p.holeCards, cards...)
		}
	}
	return nil
}

func (m *Machine) dealBoard() error {
	need := m.street.BoardSize() - len(m.board)
	if need <= 0 {
		return nil
	}
	cards, err := m.opts.Deck.Draw(need)
	if err != nil {
		return err
	}
	m.board = append(m.board, cards...)
	return nil
}

func (m *Machine) finishFoldOut() {
	result, err := m.ledger.Settle(m.opts.Rake, len(m.board) > 0, nil)
	if err != nil {
		m.abort(err)
		return
	}
	m.result = result
	m.pending = make(map[string]bool)
	m.state = State_AllPlayersFolded
}

func (m *Machine) resolveShowdown() error {
	m.showdown = make(map[string]evaluator.Result)
	for _, id := range m.liveIDs() {
		p := m.players[m.playerIdx(id)]
		r, err := m.opts.Evaluator.Evaluate(p.holeCards, m.board)
		if err != nil {
			m.abort(err)
			return err
		}
		m.showdown[id] = r
	}

	result, err := m.ledger.Settle(m.opts.Rake, true, func(eligible []string) []string {
		return evaluator.Winners(m.showdown, eligible)
	})
	if err != nil {
		m.abort(err)
		return err
	}

	m.result = result
	m.state = State_HandComplete
	return nil
}

func (m *Machine) abort(err error) {
	m.ledger.Abort()
	m.abortErr = err
	m.pending = make(map[string]bool)
	m.state = State_Aborted
}
