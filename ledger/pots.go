package ledger

import (
	"errors"
	"sort"

	"github.com/thoas/go-funk"
)

var (
	ErrNoEligiblePlayers = errors.New("ledger: pot has no eligible players")
)

type Pot struct {
	Amount   int64    `json:"amount"`
	Eligible []string `json:"eligible"` // seat order
}

type Refund struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

type Award struct {
	Pot     Pot              `json:"pot"`    // before rake
	Rake    int64            `json:"rake"`   // rake taken from this pot
	Amount  int64            `json:"amount"` // paid out
	Winners []string         `json:"winners"`
	Shares  map[string]int64 `json:"shares"`
}

type Settlement struct {
	Pot      int64            `json:"pot"` // contested pot, refund excluded
	Rake     int64            `json:"rake"`
	Refund   *Refund          `json:"refund,omitempty"`
	Awards   []Award          `json:"awards"`
	Winnings map[string]int64 `json:"winnings"`
}

// WinnerFunc picks the winners among the eligible players of one pot.
type WinnerFunc func(eligible []string) []string

// UncalledBet reports the part of the single largest contribution that nobody matched.
func (l *Ledger) UncalledBet() (Refund, bool) {
	var top, second int64
	var topAccount *Account
	tie := false
	for _, a := range l.accounts {
		switch {
		case a.Total > top:
			second = top
			top = a.Total
			topAccount = a
			tie = false
		case a.Total == top:
			tie = true
		case a.Total > second:
			second = a.Total
		}
	}

	if topAccount == nil || tie || topAccount.Folded || top == second {
		return Refund{}, false
	}

	return Refund{PlayerID: topAccount.ID, Amount: top - second}, true
}

// SidePots partitions the contested pot into tiers, main pot first. Each tier is
// eligible to the non-folded players who contributed at least up to it.
func (l *Ledger) SidePots() []Pot {
	commits := make(map[string]int64, len(l.accounts))
	for _, a := range l.accounts {
		commits[a.ID] = a.Total
	}
	if refund, ok := l.UncalledBet(); ok {
		commits[refund.PlayerID] -= refund.Amount
	}

	levels := make([]int64, 0)
	for _, a := range l.accounts {
		c := commits[a.ID]
		if a.Folded || c <= 0 || funk.ContainsInt64(levels, c) {
			continue
		}
		levels = append(levels, c)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i] < levels[j]
	})

	pots := make([]Pot, 0, len(levels))
	var prev int64
	for _, level := range levels {
		var amount int64
		eligible := make([]string, 0)
		for _, a := range l.accounts {
			c := commits[a.ID]
			amount += min(c, level) - min(c, prev)
			if !a.Folded && c >= level {
				eligible = append(eligible, a.ID)
			}
		}
		pots = append(pots, Pot{Amount: amount, Eligible: eligible})
		prev = level
	}

	// folded chips above the last live level stay with the last pot
	var leftover int64
	for _, a := range l.accounts {
		if c := commits[a.ID]; c > prev {
			leftover += c - prev
		}
	}
	if leftover > 0 {
		if len(pots) == 0 {
			pots = append(pots, Pot{Eligible: l.liveIDs()})
		}
		pots[len(pots)-1].Amount += leftover
	}

	return pots
}

// Settle returns any uncalled bet, takes the rake from the contested pot and pays every
// pot to its winners, smallest tier first. Each pot carries the rake in proportion to its
// size and the indivisible rake remainder is charged to the main pot. An indivisible
// payout remainder goes to the first winner in seat order. Stacks are credited.
func (l *Ledger) Settle(rule RakeRule, reachedFlop bool, winners WinnerFunc) (*Settlement, error) {
	if l.settled {
		return nil, ErrAlreadySettled
	}

	s := &Settlement{
		Awards:   make([]Award, 0),
		Winnings: make(map[string]int64),
	}

	if refund, ok := l.UncalledBet(); ok {
		r := refund
		s.Refund = &r
	}

	pots := l.SidePots()
	for _, p := range pots {
		s.Pot += p.Amount
	}
	s.Rake = rule.Compute(s.Pot, reachedFlop)
	potRakes := splitRake(s.Rake, s.Pot, pots)

	for i, p := range pots {
		if len(p.Eligible) == 0 {
			return nil, ErrNoEligiblePlayers
		}

		award := Award{
			Pot:    p,
			Shares: make(map[string]int64),
		}
		award.Rake = potRakes[i]
		award.Amount = p.Amount - award.Rake

		var picked []string
		if len(p.Eligible) == 1 || winners == nil {
			picked = p.Eligible
		} else {
			picked = winners(p.Eligible)
		}
		award.Winners = l.inSeatOrder(funk.IntersectString(p.Eligible, picked))
		if len(award.Winners) == 0 {
			award.Winners = p.Eligible
		}

		share := award.Amount / int64(len(award.Winners))
		remainder := award.Amount % int64(len(award.Winners))
		for i, id := range award.Winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			award.Shares[id] = amount
			s.Winnings[id] += amount
		}

		s.Awards = append(s.Awards, award)
	}

	// all checks passed, move the chips
	if s.Refund != nil {
		a := l.index[s.Refund.PlayerID]
		a.Stack += s.Refund.Amount
	}
	for id, amount := range s.Winnings {
		l.index[id].Stack += amount
	}
	l.settled = true

	return s, nil
}

// splitRake charges every pot floor(rake * amount / total). The remainder lands on the
// first pot that can still carry it, main pot first.
func splitRake(rake int64, total int64, pots []Pot) []int64 {
	rakes := make([]int64, len(pots))
	if rake <= 0 || total <= 0 || len(pots) == 0 {
		return rakes
	}

	var charged int64
	for i, p := range pots {
		rakes[i] = rake * p.Amount / total
		charged += rakes[i]
	}
	remainder := rake - charged
	for i := 0; remainder > 0 && i < len(pots); i++ {
		extra := min(remainder, pots[i].Amount-rakes[i])
		rakes[i] += extra
		remainder -= extra
	}

	return rakes
}

func (l *Ledger) Settled() bool {
	return l.settled
}

func (l *Ledger) liveIDs() []string {
	ids := make([]string, 0)
	for _, a := range l.accounts {
		if !a.Folded {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (l *Ledger) inSeatOrder(ids []string) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return l.seatIndex(sorted[i]) < l.seatIndex(sorted[j])
	})
	return sorted
}
