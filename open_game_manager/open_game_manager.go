package open_game_manager

import (
	"github.com/weedbox/syncsaga"
)

func NewOpenGameManager(options OpenGameOption) OpenGameManager {
	onReady := options.OnOpenGameReady
	if onReady == nil {
		onReady = func(OpenGameState) {}
	}

	m := &openGameManager{
		onOpenGameReady: onReady,
		rg: syncsaga.NewReadyGroup(syncsaga.WithTimeout(options.Timeout, func(rg *syncsaga.ReadyGroup) {
			// Auto Ready By Default
			for idx, isReady := range rg.GetParticipantStates() {
				if !isReady {
					rg.Ready(idx)
				}
			}
		})),
	}
	m.state = &OpenGameState{
		Timeout:      options.Timeout,
		HandNumber:   0,
		Participants: make(map[string]*OpenGameParticipant),
	}

	return m
}

func (m *openGameManager) Ready(participantID string) error {
	return m.readyGroupReady(participantID)
}

/*
Setup starts waiting for the participants of the given hand
  - participants maps participant id to its seat index
  - a previous wait is discarded
*/
func (m *openGameManager) Setup(handNumber int, participants map[string]int) {
	m.rg.Stop()

	m.mu.Lock()
	m.state.HandNumber = handNumber
	m.isWaiting = true
	m.mu.Unlock()

	m.rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		m.readyGroupOnCompleted()
	})
	m.readyGroupResetParticipants()
	for id, idx := range participants {
		participant := OpenGameParticipant{
			ID:      id,
			Index:   idx,
			IsReady: false,
		}
		m.readyGroupAddParticipant(participant, false)
	}

	m.rg.Start()
}

func (m *openGameManager) Stop() {
	m.mu.Lock()
	m.isWaiting = false
	m.mu.Unlock()

	m.rg.Stop()
}

func (m *openGameManager) GetState() OpenGameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *openGameManager) snapshot() OpenGameState {
	state := OpenGameState{
		Timeout:      m.state.Timeout,
		HandNumber:   m.state.HandNumber,
		Participants: make(map[string]*OpenGameParticipant, len(m.state.Participants)),
	}
	for id, p := range m.state.Participants {
		copied := *p
		state.Participants[id] = &copied
	}
	return state
}
