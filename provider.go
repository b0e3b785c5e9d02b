package pokerdojo

import (
	"errors"
	"sync"

	"github.com/weedbox/pokerdojo/model"
)

var (
	ErrQuotaExhausted = errors.New("session: hand quota exhausted")
)

// FlopConstraint accepts or rejects the three flop cards of a shuffled deck.
type FlopConstraint func(flop []model.Card) bool

type Scenario struct {
	SmallBlind     int64          `json:"small_blind"` // zero keeps the session blinds
	BigBlind       int64          `json:"big_blind"`
	StartingStack  int64          `json:"starting_stack"`
	ResetStacks    bool           `json:"reset_stacks"` // every seat starts the hand with StartingStack
	Narrative      string         `json:"narrative"`
	FlopConstraint FlopConstraint `json:"-"`
}

type ScenarioProvider interface {
	HandScenario(sessionID string, handNumber int) (Scenario, error)
}

// StaticScenarioProvider serves the same scenario for every hand.
type StaticScenarioProvider struct {
	Scenario Scenario
}

func (p StaticScenarioProvider) HandScenario(sessionID string, handNumber int) (Scenario, error) {
	return p.Scenario, nil
}

// QuotaProvider gates every new hand against the identity's remaining hand count.
type QuotaProvider interface {
	AcquireHand(identity string) (remaining int, err error)
}

// StaticQuotaProvider allows Limit hands per identity; a Limit of 0 is unlimited.
type StaticQuotaProvider struct {
	mu    sync.Mutex
	Limit int
	used  map[string]int
}

func NewStaticQuotaProvider(limit int) *StaticQuotaProvider {
	return &StaticQuotaProvider{
		Limit: limit,
		used:  make(map[string]int),
	}
}

func (p *StaticQuotaProvider) AcquireHand(identity string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Limit <= 0 {
		return UnsetValue, nil
	}
	if p.used[identity] >= p.Limit {
		return 0, ErrQuotaExhausted
	}
	p.used[identity]++
	return p.Limit - p.used[identity], nil
}
