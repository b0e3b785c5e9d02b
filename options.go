package pokerdojo

import (
	"time"
)

type SessionEngineCallbacks struct {
	OnSessionCreated func(SessionCreatedEvent)
	OnSessionJoined  func(SessionJoinedEvent)
	OnGameStarted    func(GameStartedEvent)
	OnTableUpdated   func(TableUpdatedEvent)
	OnHandCompleted  func(HandCompletedEvent)
	OnActionRejected func(ActionRejectedEvent)
	OnSessionEnded   func(SessionEndedEvent)
}

func NewSessionEngineCallbacks() *SessionEngineCallbacks {
	return &SessionEngineCallbacks{
		OnSessionCreated: func(SessionCreatedEvent) {},
		OnSessionJoined:  func(SessionJoinedEvent) {},
		OnGameStarted:    func(GameStartedEvent) {},
		OnTableUpdated:   func(TableUpdatedEvent) {},
		OnHandCompleted:  func(HandCompletedEvent) {},
		OnActionRejected: func(ActionRejectedEvent) {},
		OnSessionEnded:   func(SessionEndedEvent) {},
	}
}

type SessionEngineOptions struct {
	ActionTimeout   time.Duration // auto-fold after this long; 0 disables
	DisconnectGrace time.Duration // auto-fold delay for a disconnected actor
	ReadyTimeout    int           // seconds before unready players are readied
	QueueSize       int
	PersistTimeout  time.Duration
}

func NewSessionEngineOptions() *SessionEngineOptions {
	return &SessionEngineOptions{
		ActionTimeout:   30 * time.Second,
		DisconnectGrace: 5 * time.Second,
		ReadyTimeout:    10,
		QueueSize:       16,
		PersistTimeout:  30 * time.Second,
	}
}
