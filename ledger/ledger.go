package ledger

import (
	"errors"
	"fmt"

	"github.com/weedbox/pokerdojo/model"
)

var (
	ErrInsufficientStack = errors.New("ledger: insufficient stack")
	ErrUnsettledStreet   = errors.New("ledger: unsettled street")
	ErrPlayerNotFound    = errors.New("ledger: player not found")
	ErrDuplicatePlayer   = errors.New("ledger: duplicate player")
	ErrInvalidAmount     = errors.New("ledger: invalid amount")
	ErrAlreadySettled    = errors.New("ledger: hand already settled")
)

type Participant struct {
	ID    string `json:"id"`
	Stack int64  `json:"stack"`
}

type Account struct {
	ID            string `json:"id"`
	StartingStack int64  `json:"starting_stack"` // stack before the first posting
	Stack         int64  `json:"stack"`          // chips behind
	Street        int64  `json:"street"`         // contributed on the current street
	Total         int64  `json:"total"`          // contributed over the whole hand
	Folded        bool   `json:"folded"`
	AllIn         bool   `json:"all_in"`
}

// Ledger keeps integer-exact accounting of one hand. Accounts are kept in seat order.
type Ledger struct {
	accounts     []*Account
	index        map[string]*Account
	street       model.Street
	streetTotals [4]int64
	settled      bool
}

func New(participants []Participant) (*Ledger, error) {
	l := &Ledger{
		accounts: make([]*Account, 0, len(participants)),
		index:    make(map[string]*Account, len(participants)),
		street:   model.Preflop,
	}

	for _, p := range participants {
		if _, exist := l.index[p.ID]; exist {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
		}
		if p.Stack < 0 {
			return nil, fmt.Errorf("%w: negative stack for %s", ErrInvalidAmount, p.ID)
		}

		a := &Account{
			ID:            p.ID,
			StartingStack: p.Stack,
			Stack:         p.Stack,
		}
		l.accounts = append(l.accounts, a)
		l.index[p.ID] = a
	}

	return l, nil
}

func (l *Ledger) Street() model.Street {
	return l.street
}

func (l *Ledger) Account(id string) (Account, error) {
	a, ok := l.index[id]
	if !ok {
		return Account{}, ErrPlayerNotFound
	}
	return *a, nil
}

// Accounts returns a snapshot of every account in seat order.
func (l *Ledger) Accounts() []Account {
	accounts := make([]Account, len(l.accounts))
	for i, a := range l.accounts {
		accounts[i] = *a
	}
	return accounts
}

// Contribute moves amount from the player's stack into the pot on the current street.
// The caller is expected to cap at the stack; a player whose stack reaches zero is all-in.
func (l *Ledger) Contribute(id string, amount int64) error {
	a, ok := l.index[id]
	if !ok {
		return ErrPlayerNotFound
	}

	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	if amount > a.Stack {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientStack, id, a.Stack, amount)
	}

	a.Stack -= amount
	a.Street += amount
	a.Total += amount
	l.streetTotals[l.street] += amount

	if a.Stack == 0 && a.Total > 0 {
		a.AllIn = true
	}

	return nil
}

func (l *Ledger) Fold(id string) error {
	a, ok := l.index[id]
	if !ok {
		return ErrPlayerNotFound
	}
	a.Folded = true
	return nil
}

func (l *Ledger) StreetTotal(s model.Street) int64 {
	if s < model.Preflop || s > model.River {
		return 0
	}
	return l.streetTotals[s]
}

// TotalPot is everything contributed during the hand, blinds included, before rake.
func (l *Ledger) TotalPot() int64 {
	var total int64
	for _, t := range l.streetTotals {
		total += t
	}
	return total
}

// HighestStreetContribution is the amount to match on the current street.
func (l *Ledger) HighestStreetContribution() int64 {
	var highest int64
	for _, a := range l.accounts {
		if a.Street > highest {
			highest = a.Street
		}
	}
	return highest
}

// CloseStreet verifies that every player still able to act has matched the highest
// contribution, then resets the per-street entries and moves to the next street.
func (l *Ledger) CloseStreet() error {
	var highest int64
	for _, a := range l.accounts {
		if !a.Folded && a.Street > highest {
			highest = a.Street
		}
	}

	for _, a := range l.accounts {
		if a.Folded || a.AllIn {
			continue
		}
		if a.Street != highest {
			return fmt.Errorf("%w: %s contributed %d on the %s, expected %d", ErrUnsettledStreet, a.ID, a.Street, l.street, highest)
		}
	}

	for _, a := range l.accounts {
		a.Street = 0
	}
	l.street = l.street.Next()

	return nil
}

// Abort returns every contribution to its owner.
func (l *Ledger) Abort() {
	for _, a := range l.accounts {
		a.Stack += a.Total
		a.Street = 0
		a.Total = 0
		a.AllIn = false
	}
	l.streetTotals = [4]int64{}
	l.settled = true
}

func (l *Ledger) seatIndex(id string) int {
	for i, a := range l.accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
