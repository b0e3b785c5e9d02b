package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/pokerdojo"
)

var (
	ErrAlreadySeated = errors.New("transport: connection is already seated at a table")
	ErrNotSeated     = errors.New("transport: connection is not seated at this table")
	ErrUnknownType   = errors.New("transport: unknown message type")
)

// Hub binds WebSocket connections to seats and relays session events to them.
// A connection's client id is its player id.
type Hub struct {
	mu          sync.RWMutex
	coordinator pokerdojo.Coordinator
	defaults    pokerdojo.SessionSetting
	logger      *logrus.Entry
	upgrader    websocket.Upgrader
	clients     map[string]*Client
}

func NewHub(coordinator pokerdojo.Coordinator, defaults pokerdojo.SessionSetting, logger *logrus.Logger) *Hub {
	return &Hub{
		coordinator: coordinator,
		defaults:    defaults,
		logger:      logrus.NewEntry(logger).WithField("component", "transport"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWs)
	return mux
}

func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(c)
	h.sendTo(c.id, MessageType_Connected, ConnectedPayload{ClientID: c.id})

	go c.writePump()
	go c.readPump()
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.logger.WithField("client_id", c.id).Debug("client registered")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	sessionID := c.sessionID
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"client_id":  c.id,
		"session_id": sessionID,
	}).Debug("client unregistered")

	if sessionID != "" {
		_ = h.coordinator.PlayerDisconnect(sessionID, c.id)
	}
}

func (h *Hub) bind(c *Client, sessionID string) {
	h.mu.Lock()
	c.sessionID = sessionID
	h.mu.Unlock()
}

func (h *Hub) seatedAt(c *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.sessionID
}

// sendTo queues a message for one client; a slow client loses the message.
func (h *Hub) sendTo(clientID string, msgType string, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.WithError(err).WithField("type", msgType).Error("unable to encode message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}

	select {
	case c.send <- data:
	default:
		h.logger.WithFields(logrus.Fields{
			"client_id": clientID,
			"type":      msgType,
		}).Warn("client send buffer full, message dropped")
	}
}

func (h *Hub) broadcast(clientIDs []string, msgType string, payload interface{}) {
	for _, id := range clientIDs {
		h.sendTo(id, msgType, payload)
	}
}

func (h *Hub) sendError(c *Client, request string, err error) {
	h.sendTo(c.id, MessageType_Error, ErrorPayload{Request: request, Message: err.Error()})
}

// sessionCallbacks routes engine events: broadcasts to every seat, rejections to the actor only.
func (h *Hub) sessionCallbacks() *pokerdojo.SessionEngineCallbacks {
	callbacks := pokerdojo.NewSessionEngineCallbacks()

	callbacks.OnSessionCreated = func(e pokerdojo.SessionCreatedEvent) {
		h.sendTo(e.PlayerID, MessageType_SessionCreated, e)
	}
	callbacks.OnSessionJoined = func(e pokerdojo.SessionJoinedEvent) {
		h.sendTo(e.PlayerID, MessageType_SessionJoined, e)
	}
	callbacks.OnGameStarted = func(e pokerdojo.GameStartedEvent) {
		ids := make([]string, 0, len(e.Players))
		for _, p := range e.Players {
			ids = append(ids, p.PlayerID)
		}
		h.broadcast(ids, MessageType_GameStarted, e)
	}
	callbacks.OnTableUpdated = func(e pokerdojo.TableUpdatedEvent) {
		h.broadcast(e.PlayerIDs, MessageType_TableUpdated, e)
	}
	callbacks.OnHandCompleted = func(e pokerdojo.HandCompletedEvent) {
		h.broadcast(e.PlayerIDs, MessageType_HandCompleted, e)
	}
	callbacks.OnActionRejected = func(e pokerdojo.ActionRejectedEvent) {
		h.sendTo(e.PlayerID, MessageType_ActionRejected, e)
	}
	callbacks.OnSessionEnded = func(e pokerdojo.SessionEndedEvent) {
		h.mu.Lock()
		for _, id := range e.PlayerIDs {
			if c, ok := h.clients[id]; ok && c.sessionID == e.SessionID {
				c.sessionID = ""
			}
		}
		h.mu.Unlock()

		h.broadcast(e.PlayerIDs, MessageType_SessionEnded, e)
	}

	return callbacks
}

func (h *Hub) handleMessage(c *Client, msg Message) {
	var err error
	switch msg.Type {
	case MessageType_CreateSession:
		err = h.handleCreateSession(c, msg.Payload)
	case MessageType_JoinSession:
		err = h.handleJoinSession(c, msg.Payload)
	case MessageType_PlayerAction:
		err = h.handlePlayerAction(c, msg.Payload)
	case MessageType_PlayerReady:
		err = h.handlePlayerReady(c, msg.Payload)
	default:
		err = ErrUnknownType
	}

	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"client_id": c.id,
			"type":      msg.Type,
		}).WithError(err).Debug("request failed")
		h.sendError(c, msg.Type, err)
	}
}

func (h *Hub) handleCreateSession(c *Client, raw json.RawMessage) error {
	var payload CreateSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if h.seatedAt(c) != "" {
		return ErrAlreadySeated
	}

	setting := h.defaults
	if s := payload.Settings; s != nil {
		if s.TableName != "" {
			setting.TableName = s.TableName
		}
		if s.MaxSeats > 0 {
			setting.MaxSeats = s.MaxSeats
			if setting.MinPlayers > s.MaxSeats {
				setting.MinPlayers = s.MaxSeats
			}
		}
		if s.SmallBlind > 0 && s.BigBlind > 0 {
			setting.SmallBlind, setting.BigBlind = s.SmallBlind, s.BigBlind
		}
		if s.StartingStack > 0 {
			setting.StartingStack = s.StartingStack
		}
		if s.Narrative != "" {
			setting.Narrative = s.Narrative
		}
	}

	session, err := h.coordinator.CreateSession(setting, pokerdojo.JoinPlayer{
		PlayerID: c.id,
		Name:     payload.PlayerName,
		Identity: payload.Identity,
	}, h.sessionCallbacks())
	if err != nil {
		return err
	}

	h.bind(c, session.ID)
	return nil
}

func (h *Hub) handleJoinSession(c *Client, raw json.RawMessage) error {
	var payload JoinSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if h.seatedAt(c) != "" {
		return ErrAlreadySeated
	}

	err := h.coordinator.JoinSession(payload.SessionID, pokerdojo.JoinPlayer{
		PlayerID: c.id,
		Name:     payload.PlayerName,
		Identity: payload.Identity,
	})
	if err != nil {
		return err
	}

	h.bind(c, payload.SessionID)
	return nil
}

func (h *Hub) handlePlayerAction(c *Client, raw json.RawMessage) error {
	var payload PlayerActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}

	tableID, err := h.table(c, payload.TableID)
	if err != nil {
		return err
	}

	err = h.coordinator.PlayerAction(tableID, c.id, payload.Action, payload.Amount)
	switch {
	case err == nil:
	case errors.Is(err, pokerdojo.ErrActionInProgress),
		errors.Is(err, pokerdojo.ErrSessionEnded),
		errors.Is(err, pokerdojo.ErrSessionNotFound):
		// refused before reaching the table, so the engine never reported it
		h.sendTo(c.id, MessageType_ActionRejected, pokerdojo.ActionRejectedEvent{
			TableID:  tableID,
			PlayerID: c.id,
			Action:   payload.Action,
			Reason:   err.Error(),
		})
	}

	return nil
}

func (h *Hub) handlePlayerReady(c *Client, raw json.RawMessage) error {
	var payload PlayerReadyPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return err
		}
	}

	tableID, err := h.table(c, payload.TableID)
	if err != nil {
		return err
	}

	return h.coordinator.PlayerReady(tableID, c.id)
}

// table resolves the table a request targets; an empty id means the client's own table.
func (h *Hub) table(c *Client, tableID string) (string, error) {
	seated := h.seatedAt(c)
	if seated == "" || (tableID != "" && tableID != seated) {
		return "", ErrNotSeated
	}
	return seated, nil
}
