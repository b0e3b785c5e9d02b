package transport

import (
	"encoding/json"
)

const (
	// client to server
	MessageType_CreateSession = "create-session"
	MessageType_JoinSession   = "join-session"
	MessageType_PlayerAction  = "player-action"
	MessageType_PlayerReady   = "player-ready"

	// server to client
	MessageType_Connected      = "connected"
	MessageType_SessionCreated = "session-created"
	MessageType_SessionJoined  = "session-joined"
	MessageType_GameStarted    = "game-started"
	MessageType_TableUpdated   = "table-updated"
	MessageType_HandCompleted  = "hand-completed"
	MessageType_ActionRejected = "action-rejected"
	MessageType_SessionEnded   = "session-ended"
	MessageType_Error          = "error"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ConnectedPayload struct {
	ClientID string `json:"clientId"`
}

type SettingsPayload struct {
	TableName     string `json:"tableName"`
	MaxSeats      int    `json:"maxSeats"`
	SmallBlind    int64  `json:"smallBlind"`
	BigBlind      int64  `json:"bigBlind"`
	StartingStack int64  `json:"startingStack"`
	Narrative     string `json:"narrative"`
}

type CreateSessionPayload struct {
	PlayerName string           `json:"playerName"`
	Identity   string           `json:"identity"`
	Settings   *SettingsPayload `json:"settings"`
}

type JoinSessionPayload struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
	Identity   string `json:"identity"`
}

type PlayerActionPayload struct {
	TableID string `json:"tableId"`
	Action  string `json:"action"`
	Amount  int64  `json:"amount"`
}

type PlayerReadyPayload struct {
	TableID string `json:"tableId"`
}

type ErrorPayload struct {
	Request string `json:"request"`
	Message string `json:"message"`
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: data})
}
