package pokerdojo

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/pokerdojo/betting"
	"github.com/weedbox/pokerdojo/evaluator"
	"github.com/weedbox/pokerdojo/model"
	"github.com/weedbox/pokerdojo/open_game_manager"
	"github.com/weedbox/pokerdojo/seat_manager"
	"github.com/weedbox/pokerdojo/store"
	"github.com/weedbox/timebank"
)

var (
	ErrActionInProgress    = errors.New("session: action in progress")
	ErrSessionEnded        = errors.New("session: session ended")
	ErrSessionFull         = errors.New("session: no empty seats available")
	ErrInvalidSetting      = errors.New("session: invalid session setting")
	ErrInvalidPlayer       = errors.New("session: invalid player")
	ErrPlayerNotFound      = errors.New("session: player not found")
	ErrPlayerAlreadyJoined = errors.New("session: player already joined")
	ErrNoHandInProgress    = errors.New("session: no hand in progress")
	ErrFlopConstraint      = errors.New("session: flop constraint cannot be satisfied")
)

const maxFlopResample = 1000

type SessionEngineOpt func(*sessionEngine)

type SessionEngine interface {
	// Events
	OnSessionCreated(fn func(SessionCreatedEvent))
	OnSessionJoined(fn func(SessionJoinedEvent))
	OnGameStarted(fn func(GameStartedEvent))
	OnTableUpdated(fn func(TableUpdatedEvent))
	OnHandCompleted(fn func(HandCompletedEvent))
	OnActionRejected(fn func(ActionRejectedEvent))
	OnSessionEnded(fn func(SessionEndedEvent))

	// Session Actions
	GetSession() *Session
	CreateSession(setting SessionSetting, creator JoinPlayer) (*Session, error)
	EndSession() error
	Done() <-chan struct{}

	// Player Actions
	PlayerJoin(player JoinPlayer) error
	PlayerReady(playerID string) error
	PlayerAction(playerID string, action string, amount int64) error
	PlayerDisconnect(playerID string) error
	PlayerReconnect(playerID string) error
}

type sessionEngine struct {
	lock        sync.Mutex
	options     *SessionEngineOptions
	sessionID   string
	session     *Session
	logger      *logrus.Entry
	sm          seat_manager.SeatManager
	ogm         open_game_manager.OpenGameManager
	machine     *betting.Machine
	tb          *timebank.TimeBank
	scenario    ScenarioProvider
	quota       QuotaProvider
	writer      store.Writer
	evaluator   evaluator.Evaluator
	newDeck     func() *model.Deck
	incoming    chan *Request
	quit        chan struct{}
	ended       bool
	persisting  sync.WaitGroup
	handsPlayed int
	dispatcher  *dispatcher

	onSessionCreated func(SessionCreatedEvent)
	onSessionJoined  func(SessionJoinedEvent)
	onGameStarted    func(GameStartedEvent)
	onTableUpdated   func(TableUpdatedEvent)
	onHandCompleted  func(HandCompletedEvent)
	onActionRejected func(ActionRejectedEvent)
	onSessionEnded   func(SessionEndedEvent)
}

func NewSessionEngine(options *SessionEngineOptions, opts ...SessionEngineOpt) SessionEngine {
	if options == nil {
		options = NewSessionEngineOptions()
	}
	if options.QueueSize <= 0 {
		options.QueueSize = 1
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	callbacks := NewSessionEngineCallbacks()
	se := &sessionEngine{
		options:   options,
		logger:    logrus.NewEntry(logrus.StandardLogger()),
		tb:        timebank.NewTimeBank(),
		evaluator: evaluator.NewEvaluator(),
		newDeck: func() *model.Deck {
			deck := model.NewDeck()
			deck.Shuffle(r)
			return deck
		},
		incoming:         make(chan *Request, options.QueueSize),
		quit:             make(chan struct{}),
		onSessionCreated: callbacks.OnSessionCreated,
		onSessionJoined:  callbacks.OnSessionJoined,
		onGameStarted:    callbacks.OnGameStarted,
		onTableUpdated:   callbacks.OnTableUpdated,
		onHandCompleted:  callbacks.OnHandCompleted,
		onActionRejected: callbacks.OnActionRejected,
		onSessionEnded:   callbacks.OnSessionEnded,
	}

	for _, opt := range opts {
		opt(se)
	}

	return se
}

func WithLogger(logger *logrus.Logger) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.logger = logrus.NewEntry(logger)
	}
}

// WithSessionID fixes the id of the session created by the engine.
func WithSessionID(id string) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.sessionID = id
	}
}

func WithHistoryWriter(w store.Writer) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.writer = w
	}
}

func WithScenarioProvider(p ScenarioProvider) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.scenario = p
	}
}

func WithQuotaProvider(p QuotaProvider) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.quota = p
	}
}

func WithEvaluator(e evaluator.Evaluator) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.evaluator = e
	}
}

// WithDeckFactory replaces the shuffled deck used for every hand.
func WithDeckFactory(fn func() *model.Deck) SessionEngineOpt {
	return func(se *sessionEngine) {
		se.newDeck = fn
	}
}

func (se *sessionEngine) OnSessionCreated(fn func(SessionCreatedEvent)) {
	se.onSessionCreated = fn
}

func (se *sessionEngine) OnSessionJoined(fn func(SessionJoinedEvent)) {
	se.onSessionJoined = fn
}

func (se *sessionEngine) OnGameStarted(fn func(GameStartedEvent)) {
	se.onGameStarted = fn
}

func (se *sessionEngine) OnTableUpdated(fn func(TableUpdatedEvent)) {
	se.onTableUpdated = fn
}

func (se *sessionEngine) OnHandCompleted(fn func(HandCompletedEvent)) {
	se.onHandCompleted = fn
}

func (se *sessionEngine) OnActionRejected(fn func(ActionRejectedEvent)) {
	se.onActionRejected = fn
}

func (se *sessionEngine) OnSessionEnded(fn func(SessionEndedEvent)) {
	se.onSessionEnded = fn
}

func (se *sessionEngine) GetSession() *Session {
	se.lock.Lock()
	defer se.lock.Unlock()

	if se.session == nil {
		return nil
	}
	return se.session.Clone()
}

// Done is closed once the session has ended and its hand histories are persisted.
func (se *sessionEngine) Done() <-chan struct{} {
	return se.quit
}

/*
CreateSession 建立 session
  - the creator takes the first seat
  - the request loop starts here
*/
func (se *sessionEngine) CreateSession(setting SessionSetting, creator JoinPlayer) (*Session, error) {
	if err := setting.validate(); err != nil {
		return nil, err
	}
	if creator.PlayerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidPlayer)
	}

	se.lock.Lock()
	defer se.lock.Unlock()

	if se.session != nil {
		return nil, fmt.Errorf("%w: session already created", ErrInvalidSetting)
	}

	sessionID := se.sessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	owner := creator.Identity
	if owner == "" {
		owner = creator.PlayerID
	}

	now := time.Now()
	se.session = &Session{
		ID:         sessionID,
		Setting:    setting,
		Owner:      owner,
		Status:     SessionStatus_Created,
		Players:    make([]*SessionPlayer, 0, setting.MaxSeats),
		HandNumber: 0,
		ButtonSeat: UnsetValue,
		CreatedAt:  now.Unix(),
		UpdateAt:   now.Unix(),
	}
	se.logger = se.logger.WithField("session_id", se.session.ID)
	se.sm = seat_manager.NewSeatManager(setting.MaxSeats)
	se.ogm = open_game_manager.NewOpenGameManager(open_game_manager.OpenGameOption{
		Timeout: se.options.ReadyTimeout,
		OnOpenGameReady: func(state open_game_manager.OpenGameState) {
			se.post(RequestAction_OpenHand, state.HandNumber)
		},
	})
	se.dispatcher = newDispatcher()

	if _, err := se.seatPlayer(creator); err != nil {
		se.dispatcher.close()
		return nil, err
	}

	se.emitEvent(Event_SessionCreated, creator.PlayerID, func() {
		se.onSessionCreated(SessionCreatedEvent{SessionID: sessionID, PlayerID: creator.PlayerID})
	})
	se.emitSessionJoined(creator.PlayerID)

	go se.run()

	return se.session.Clone(), nil
}

func (se *sessionEngine) EndSession() error {
	return se.submit(RequestAction_EndSession, EndReason_Requested)
}

func (se *sessionEngine) PlayerJoin(player JoinPlayer) error {
	return se.submit(RequestAction_PlayerJoin, player)
}

func (se *sessionEngine) PlayerReady(playerID string) error {
	return se.submit(RequestAction_PlayerReady, playerID)
}

/*
PlayerAction 玩家動作
  - action: fold, check, call, bet, raise or allin
  - amount is the resulting street total for bet and raise
  - an illegal action is returned to the caller only; the table is untouched
*/
func (se *sessionEngine) PlayerAction(playerID string, action string, amount int64) error {
	return se.submit(RequestAction_PlayerAction, PlayerActionParam{
		PlayerID: playerID,
		Action:   action,
		Amount:   amount,
	})
}

func (se *sessionEngine) PlayerDisconnect(playerID string) error {
	return se.submit(RequestAction_PlayerConnection, PlayerConnectionParam{PlayerID: playerID, Connected: false})
}

func (se *sessionEngine) PlayerReconnect(playerID string) error {
	return se.submit(RequestAction_PlayerConnection, PlayerConnectionParam{PlayerID: playerID, Connected: true})
}
