package open_game_manager

func (m *openGameManager) readyGroupResetParticipants() {
	m.rg.ResetParticipants()

	m.mu.Lock()
	m.state.Participants = map[string]*OpenGameParticipant{}
	m.mu.Unlock()
}

func (m *openGameManager) readyGroupAddParticipant(participant OpenGameParticipant, isReady bool) {
	m.mu.Lock()
	m.state.Participants[participant.ID] = &OpenGameParticipant{
		ID:      participant.ID,
		Index:   participant.Index,
		IsReady: isReady,
	}
	m.mu.Unlock()

	m.rg.Add(int64(participant.Index), isReady)
}

// readyGroupOnCompleted may run on the ready group's timer goroutine.
func (m *openGameManager) readyGroupOnCompleted() {
	m.mu.Lock()
	if !m.isWaiting {
		m.mu.Unlock()
		return
	}
	m.isWaiting = false
	for participantID := range m.state.Participants {
		m.state.Participants[participantID].IsReady = true
	}
	state := m.snapshot()
	m.mu.Unlock()

	m.onOpenGameReady(state)
}

func (m *openGameManager) readyGroupReady(participantID string) error {
	m.mu.Lock()
	if !m.isWaiting {
		m.mu.Unlock()
		return ErrNotSetup
	}
	participant, exist := m.state.Participants[participantID]
	if !exist {
		m.mu.Unlock()
		return ErrParticipantNotFound
	}
	participant.IsReady = true
	idx := participant.Index
	m.mu.Unlock()

	m.rg.Ready(int64(idx))
	return nil
}
