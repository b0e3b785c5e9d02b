package pokerdojo

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("coordinator: session not found")
)

// Coordinator owns one SessionEngine per session id. The table id of a session is its session id.
type Coordinator interface {
	Reset()
	Shutdown()

	// SessionEngine Actions
	GetSessionEngine(sessionID string) (SessionEngine, error)
	CreateSession(setting SessionSetting, creator JoinPlayer, callbacks *SessionEngineCallbacks) (*Session, error)
	EndSession(sessionID string) error
	ListSessions() []string

	// Player Actions
	JoinSession(sessionID string, player JoinPlayer) error
	PlayerReady(tableID, playerID string) error
	PlayerAction(tableID, playerID, action string, amount int64) error
	PlayerDisconnect(tableID, playerID string) error
	PlayerReconnect(tableID, playerID string) error
}

type coordinator struct {
	options        *SessionEngineOptions
	opts           []SessionEngineOpt
	sessionEngines sync.Map
}

/*
NewCoordinator 建立 coordinator
  - options and opts are applied to every session engine it creates
*/
func NewCoordinator(options *SessionEngineOptions, opts ...SessionEngineOpt) Coordinator {
	if options == nil {
		options = NewSessionEngineOptions()
	}

	return &coordinator{
		options:        options,
		opts:           opts,
		sessionEngines: sync.Map{},
	}
}

func (c *coordinator) Reset() {
	c.sessionEngines = sync.Map{}
}

// Shutdown ends every session and waits until their hand histories are written.
func (c *coordinator) Shutdown() {
	engines := make([]SessionEngine, 0)
	c.sessionEngines.Range(func(key, value interface{}) bool {
		engines = append(engines, value.(SessionEngine))
		return true
	})

	for _, se := range engines {
		_ = se.EndSession()
		<-se.Done()
	}
}

func (c *coordinator) GetSessionEngine(sessionID string) (SessionEngine, error) {
	se, exist := c.sessionEngines.Load(sessionID)
	if !exist {
		return nil, ErrSessionNotFound
	}
	return se.(SessionEngine), nil
}

func (c *coordinator) ListSessions() []string {
	ids := make([]string, 0)
	c.sessionEngines.Range(func(key, value interface{}) bool {
		ids = append(ids, key.(string))
		return true
	})
	return ids
}

func (c *coordinator) CreateSession(setting SessionSetting, creator JoinPlayer, callbacks *SessionEngineCallbacks) (*Session, error) {
	if callbacks == nil {
		callbacks = NewSessionEngineCallbacks()
	}

	sessionID := uuid.New().String()

	// every engine gets its own copy of the options
	options := *c.options
	opts := append([]SessionEngineOpt{WithSessionID(sessionID)}, c.opts...)
	se := NewSessionEngine(&options, opts...)

	se.OnSessionCreated(callbacks.OnSessionCreated)
	se.OnSessionJoined(callbacks.OnSessionJoined)
	se.OnGameStarted(callbacks.OnGameStarted)
	se.OnTableUpdated(callbacks.OnTableUpdated)
	se.OnHandCompleted(callbacks.OnHandCompleted)
	se.OnActionRejected(callbacks.OnActionRejected)
	se.OnSessionEnded(func(e SessionEndedEvent) {
		c.sessionEngines.Delete(e.SessionID)
		callbacks.OnSessionEnded(e)
	})

	// stored first so callbacks of the new session can already reach it
	c.sessionEngines.Store(sessionID, se)

	session, err := se.CreateSession(setting, creator)
	if err != nil {
		c.sessionEngines.Delete(sessionID)
		return nil, err
	}

	return session, nil
}

func (c *coordinator) EndSession(sessionID string) error {
	se, err := c.GetSessionEngine(sessionID)
	if err != nil {
		return err
	}

	if err := se.EndSession(); err != nil {
		return err
	}

	<-se.Done()
	return nil
}

func (c *coordinator) JoinSession(sessionID string, player JoinPlayer) error {
	se, err := c.GetSessionEngine(sessionID)
	if err != nil {
		return err
	}

	return se.PlayerJoin(player)
}

func (c *coordinator) PlayerReady(tableID, playerID string) error {
	se, err := c.GetSessionEngine(tableID)
	if err != nil {
		return err
	}

	return se.PlayerReady(playerID)
}

func (c *coordinator) PlayerAction(tableID, playerID, action string, amount int64) error {
	se, err := c.GetSessionEngine(tableID)
	if err != nil {
		return err
	}

	return se.PlayerAction(playerID, action, amount)
}

func (c *coordinator) PlayerDisconnect(tableID, playerID string) error {
	se, err := c.GetSessionEngine(tableID)
	if err != nil {
		return err
	}

	return se.PlayerDisconnect(playerID)
}

func (c *coordinator) PlayerReconnect(tableID, playerID string) error {
	se, err := c.GetSessionEngine(tableID)
	if err != nil {
		return err
	}

	return se.PlayerReconnect(playerID)
}
