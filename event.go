package pokerdojo

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/pokerdojo/betting"
)

const (
	Event_SessionCreated = "session-created"
	Event_SessionJoined  = "session-joined"
	Event_GameStarted    = "game-started"
	Event_TableUpdated   = "table-updated"
	Event_HandCompleted  = "hand-completed"
	Event_ActionRejected = "action-rejected"
	Event_SessionEnded   = "session-ended"
)

type SessionCreatedEvent struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
}

type SessionJoinedEvent struct {
	SessionID string           `json:"sessionId"`
	PlayerID  string           `json:"playerId"`
	Seat      int              `json:"seat"`
	Players   []*SessionPlayer `json:"players"`
}

type GameStartedEvent struct {
	SessionID string           `json:"sessionId"`
	TableID   string           `json:"tableId"`
	Players   []*SessionPlayer `json:"players"`
}

type TableUpdatedEvent struct {
	TableID        string                `json:"tableId"`
	Message        string                `json:"message"`
	HandNumber     int                   `json:"handNumber"`
	Street         string                `json:"street"`
	ActionRequired bool                  `json:"actionRequired"`
	CurrentPlayer  string                `json:"currentPlayer"`
	Board          string                `json:"board"`
	Pot            int64                 `json:"pot"`
	Stacks         map[string]int64      `json:"stacks"`
	LegalActions   *betting.LegalActions `json:"legalActions,omitempty"`
	PlayerIDs      []string              `json:"-"` // seats to deliver to
}

type HandCompletedEvent struct {
	TableID    string           `json:"tableId"`
	HandNumber int              `json:"handNumber"`
	HandID     string           `json:"handId"`
	Winnings   map[string]int64 `json:"winnings"`
	Rake       int64            `json:"rake"`
	History    string           `json:"history"`
	PlayerIDs  []string         `json:"-"`
}

type ActionRejectedEvent struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

type SessionEndedEvent struct {
	SessionID   string   `json:"sessionId"`
	Reason      string   `json:"reason"`
	HandsPlayed int      `json:"handsPlayed"`
	PlayerIDs   []string `json:"-"`
}

// emitEvent refreshes the session and queues fn for the callback goroutine.
func (se *sessionEngine) emitEvent(eventName string, playerID string, fn func()) {
	se.session.UpdateAt = time.Now().Unix()
	se.session.UpdateSerial++

	se.logger.WithFields(logrus.Fields{
		"event":         eventName,
		"hand_number":   se.session.HandNumber,
		"player_id":     playerID,
		"update_serial": se.session.UpdateSerial,
	}).Debug("emit event")

	se.dispatcher.emit(fn)
}

func (se *sessionEngine) emitActionRejected(param PlayerActionParam, err error) {
	se.logger.WithFields(logrus.Fields{
		"event":       Event_ActionRejected,
		"hand_number": se.session.HandNumber,
		"player_id":   param.PlayerID,
		"action":      param.Action,
	}).WithError(err).Info("action rejected")

	e := ActionRejectedEvent{
		TableID:  se.session.ID,
		PlayerID: param.PlayerID,
		Action:   param.Action,
		Reason:   err.Error(),
	}
	se.dispatcher.emit(func() { se.onActionRejected(e) })
}
