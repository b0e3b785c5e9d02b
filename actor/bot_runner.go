// Package actor drives a seat with random legal actions, for load runs and soak tests.
package actor

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"github.com/weedbox/pokerdojo"
	"github.com/weedbox/pokerdojo/betting"
	"github.com/weedbox/timebank"
)

// Seat is the part of the engine a runner plays through.
type Seat interface {
	PlayerReady(playerID string) error
	PlayerAction(playerID string, action string, amount int64) error
}

type ActionProbability struct {
	Action string
	Weight float64
}

var (
	actionProbabilities = []ActionProbability{
		{Action: pokerdojo.PlayerAction_Check, Weight: 0.1},
		{Action: pokerdojo.PlayerAction_Call, Weight: 0.3},
		{Action: pokerdojo.PlayerAction_Fold, Weight: 0.15},
		{Action: pokerdojo.PlayerAction_AllIn, Weight: 0.05},
		{Action: pokerdojo.PlayerAction_Raise, Weight: 0.3},
		{Action: pokerdojo.PlayerAction_Bet, Weight: 0.1},
	}
)

type BotRunner struct {
	mu         sync.Mutex
	seat       Seat
	playerID   string
	rand       *rand.Rand
	thinking   time.Duration
	timebank   *timebank.TimeBank
	logger     *logrus.Entry
	lastPrompt string
	actions    int
}

func NewBotRunner(seat Seat, playerID string, r *rand.Rand) *BotRunner {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	return &BotRunner{
		seat:     seat,
		playerID: playerID,
		rand:     r,
		timebank: timebank.NewTimeBank(),
		logger:   logrus.NewEntry(logger).WithField("player_id", playerID),
	}
}

func (br *BotRunner) SetLogger(logger *logrus.Logger) {
	br.logger = logrus.NewEntry(logger).WithField("player_id", br.playerID)
}

// Humanized delays every move by a random thinking time up to max.
func (br *BotRunner) Humanized(max time.Duration) {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.thinking = max
}

// Actions returns how many moves the runner has submitted.
func (br *BotRunner) Actions() int {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.actions
}

func (br *BotRunner) OnGameStarted(e pokerdojo.GameStartedEvent) {
	br.ready()
}

func (br *BotRunner) OnHandCompleted(e pokerdojo.HandCompletedEvent) {
	br.ready()
}

func (br *BotRunner) ready() {
	err := br.seat.PlayerReady(br.playerID)
	if err != nil && !errors.Is(err, pokerdojo.ErrSessionEnded) {
		br.logger.WithError(err).Debug("ready failed")
	}
}

/*
UpdateTable 收到桌況後決定是否行動
  - 只在輪到自己且需要行動時出手
  - 同一決策點 (hand, street, pot) 只出手一次
*/
func (br *BotRunner) UpdateTable(e pokerdojo.TableUpdatedEvent) error {
	if !e.ActionRequired || e.CurrentPlayer != br.playerID || e.LegalActions == nil || len(e.LegalActions.Kinds) == 0 {
		return nil
	}

	br.mu.Lock()
	prompt := fmt.Sprintf("%d/%s/%d", e.HandNumber, e.Street, e.Pot)
	if prompt == br.lastPrompt {
		br.mu.Unlock()
		return nil
	}
	br.lastPrompt = prompt

	action, amount := br.calcMove(*e.LegalActions)
	thinking := br.thinking
	if thinking > 0 {
		thinking = time.Duration(br.rand.Int63n(int64(thinking)))
	}
	br.mu.Unlock()

	if thinking == 0 {
		return br.requestMove(action, amount)
	}

	return br.timebank.NewTask(thinking, func(isCancelled bool) {
		if isCancelled {
			return
		}
		_ = br.requestMove(action, amount)
	})
}

// Stop cancels a pending humanized move.
func (br *BotRunner) Stop() {
	br.timebank.Cancel()
}

func (br *BotRunner) requestMove(action string, amount int64) error {
	br.logger.WithFields(logrus.Fields{
		"action": action,
		"amount": amount,
	}).Debug("bot move")

	br.mu.Lock()
	br.actions++
	br.mu.Unlock()

	err := br.seat.PlayerAction(br.playerID, action, amount)
	if err != nil && !errors.Is(err, pokerdojo.ErrSessionEnded) {
		br.logger.WithError(err).Warn("bot move rejected")
		return err
	}
	return nil
}

// calcActions maps the legal kinds to player actions; allin is always available.
func calcActions(legal betting.LegalActions) []string {
	actions := make([]string, 0, len(legal.Kinds)+1)
	for _, p := range actionProbabilities {
		if p.Action == pokerdojo.PlayerAction_AllIn {
			actions = append(actions, p.Action)
			continue
		}
		if funk.Contains(legal.Kinds, betting.ActionKind(p.Action)) {
			actions = append(actions, p.Action)
		}
	}
	return actions
}

func (br *BotRunner) calcAction(actions []string) string {
	totalWeight := 0.0
	for _, p := range actionProbabilities {
		if funk.ContainsString(actions, p.Action) {
			totalWeight += p.Weight
		}
	}

	randomNum := br.rand.Float64() * totalWeight
	weightLevel := 0.0
	for _, p := range actionProbabilities {
		if !funk.ContainsString(actions, p.Action) {
			continue
		}
		weightLevel += p.Weight
		if randomNum < weightLevel {
			return p.Action
		}
	}

	return actions[len(actions)-1]
}

func (br *BotRunner) calcMove(legal betting.LegalActions) (string, int64) {
	action := br.calcAction(calcActions(legal))

	switch action {
	case pokerdojo.PlayerAction_Bet, pokerdojo.PlayerAction_Raise:
		minTo, maxTo := legal.MinRaiseTo, legal.MaxRaiseTo
		if maxTo <= minTo {
			return action, maxTo
		}
		return action, minTo + br.rand.Int63n(maxTo-minTo+1)
	}

	return action, 0
}
