package open_game_manager

import (
	"errors"
	"sync"

	"github.com/weedbox/syncsaga"
)

var (
	ErrParticipantNotFound = errors.New("open_game_manager: participant not found")
	ErrNotSetup            = errors.New("open_game_manager: no hand is waiting for participants")
)

// OpenGameManager gates the opening of a hand until every seated participant is ready
// or the ready timeout expires.
type OpenGameManager interface {
	Ready(participantID string) error
	Setup(handNumber int, participants map[string]int)
	Stop()
	GetState() OpenGameState
}

type openGameManager struct {
	mu              sync.Mutex
	onOpenGameReady func(state OpenGameState)
	rg              *syncsaga.ReadyGroup
	state           *OpenGameState
	isWaiting       bool
}

type OpenGameOption struct {
	Timeout         int // seconds
	OnOpenGameReady func(state OpenGameState)
}

type OpenGameState struct {
	Timeout      int                             `json:"timeout"`
	HandNumber   int                             `json:"hand_number"`
	Participants map[string]*OpenGameParticipant `json:"participants"` // key: participant_id, value: participant
}

type OpenGameParticipant struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	IsReady bool   `json:"is_ready"`
}
