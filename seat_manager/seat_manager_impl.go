package seat_manager

import (
	"sync"

	"github.com/thoas/go-funk"
)

type seatManager struct {
	maxSeat         int
	seats           map[int]*SeatPlayer // key: seat_id (from 1 to MaxSeat), value: seat (nil by default)
	dealerSeatID    int                 // UnsetSeatID by default
	sbSeatID        int                 // UnsetSeatID by default
	bbSeatID        int                 // UnsetSeatID by default
	isInitPositions bool
	mu              sync.RWMutex
}

func (sm *seatManager) GetSeatID(playerID string) (int, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	_, seatID, err := sm.getSeatPlayer(playerID)
	return seatID, err
}

/*
AssignSeat seats a player
  - seatID UnsetSeatID picks the lowest empty seat
  - a new player starts with chips
*/
func (sm *seatManager) AssignSeat(playerID string, seatID int) (int, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, _, err := sm.getSeatPlayer(playerID); err == nil {
		return UnsetSeatID, ErrPlayerIsAlreadyExist
	}

	emptySeatIDs := sm.getEmptySeatIDs()
	if len(emptySeatIDs) == 0 {
		return UnsetSeatID, ErrNotEnoughSeats
	}

	if seatID == UnsetSeatID {
		seatID = emptySeatIDs[0]
	} else if seatID < 1 || seatID > sm.maxSeat {
		return UnsetSeatID, ErrUnavailableSeat
	} else if !funk.ContainsInt(emptySeatIDs, seatID) {
		return UnsetSeatID, ErrSeatAlreadyIsTaken
	}

	sm.seats[seatID] = &SeatPlayer{
		ID:       playerID,
		SeatID:   seatID,
		HasChips: true,
	}
	return seatID, nil
}

func (sm *seatManager) RemoveSeat(playerID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	_, seatID, err := sm.getSeatPlayer(playerID)
	if err != nil {
		return err
	}

	sm.seats[seatID] = nil
	return nil
}

func (sm *seatManager) UpdatePlayerHasChips(playerID string, hasChips bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sp, _, err := sm.getSeatPlayer(playerID)
	if err != nil {
		return err
	}

	sp.HasChips = hasChips
	return nil
}

// InitPositions places the button on the first (or a random) seat with chips.
func (sm *seatManager) InitPositions(isRandom bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	activeSeatIDs := sm.getActiveSeatIDs()
	if len(activeSeatIDs) < 2 {
		return ErrNotEnoughPlayers
	}

	dealerSeatID := activeSeatIDs[0]
	if isRandom {
		dealerSeatID = activeSeatIDs[sm.newRandom().Intn(len(activeSeatIDs))]
	}

	sm.updatePositions(dealerSeatID)
	sm.isInitPositions = true
	return nil
}

// RotatePositions moves the button clockwise to the next seat with chips.
func (sm *seatManager) RotatePositions() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.isInitPositions {
		return ErrUnableToRotatePositions
	}

	if len(sm.getActiveSeatIDs()) < 2 {
		return ErrNotEnoughPlayers
	}

	sm.updatePositions(sm.nextActiveSeatID(sm.dealerSeatID))
	return nil
}

func (sm *seatManager) Seats() map[int]*SeatPlayer {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	seats := make(map[int]*SeatPlayer, len(sm.seats))
	for seatID, sp := range sm.seats {
		if sp == nil {
			seats[seatID] = nil
			continue
		}
		copied := *sp
		seats[seatID] = &copied
	}
	return seats
}

func (sm *seatManager) MaxSeats() int {
	return sm.maxSeat
}

func (sm *seatManager) PlayerCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.maxSeat - len(sm.getEmptySeatIDs())
}

func (sm *seatManager) CurrentDealerSeatID() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.dealerSeatID
}

func (sm *seatManager) CurrentSBSeatID() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sbSeatID
}

func (sm *seatManager) CurrentBBSeatID() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.bbSeatID
}

func (sm *seatManager) IsInitPositions() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isInitPositions
}

// ListActivePlayers returns the seats with chips in seat order.
func (sm *seatManager) ListActivePlayers() []*SeatPlayer {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	seatPlayers := make([]*SeatPlayer, 0)
	for _, seatID := range sm.getActiveSeatIDs() {
		copied := *sm.seats[seatID]
		seatPlayers = append(seatPlayers, &copied)
	}
	return seatPlayers
}
