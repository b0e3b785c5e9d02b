package seat_manager

import (
	"math/rand"
	"sort"
	"time"
)

func (sm *seatManager) getEmptySeatIDs() []int {
	emptySeatIDs := make([]int, 0)
	for seatID, seatPlayer := range sm.seats {
		if seatPlayer == nil {
			emptySeatIDs = append(emptySeatIDs, seatID)
		}
	}
	sort.Ints(emptySeatIDs)
	return emptySeatIDs
}

func (sm *seatManager) getActiveSeatIDs() []int {
	seatIDs := make([]int, 0)
	for seatID, seatPlayer := range sm.seats {
		if seatPlayer != nil && seatPlayer.Active() {
			seatIDs = append(seatIDs, seatID)
		}
	}
	sort.Ints(seatIDs)
	return seatIDs
}

func (sm *seatManager) getSeatPlayer(playerID string) (*SeatPlayer, int, error) {
	for seatID, seatPlayer := range sm.seats {
		if seatPlayer != nil && seatPlayer.ID == playerID {
			return seatPlayer, seatID, nil
		}
	}
	return nil, UnsetSeatID, ErrPlayerNotFound
}

func (sm *seatManager) newRandom() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// nextActiveSeatID walks clockwise from startSeatID, wrapping from MaxSeat to 1.
func (sm *seatManager) nextActiveSeatID(startSeatID int) int {
	for i := 1; i <= sm.maxSeat; i++ {
		seatID := (startSeatID-1+i)%sm.maxSeat + 1
		if sp := sm.seats[seatID]; sp != nil && sp.Active() {
			return seatID
		}
	}
	return UnsetSeatID
}

/*
updatePositions derives the blinds from the button
  - heads-up: the button posts the small blind
  - otherwise: small blind and big blind follow the button clockwise
*/
func (sm *seatManager) updatePositions(dealerSeatID int) {
	sm.dealerSeatID = dealerSeatID
	if len(sm.getActiveSeatIDs()) == 2 {
		sm.sbSeatID = dealerSeatID
	} else {
		sm.sbSeatID = sm.nextActiveSeatID(dealerSeatID)
	}
	sm.bbSeatID = sm.nextActiveSeatID(sm.sbSeatID)
}
