package seat_manager

import (
	"errors"
)

var (
	ErrNotEnoughSeats          = errors.New("seat manager: no enough seats")
	ErrNotEnoughPlayers        = errors.New("seat manager: no enough players with chips")
	ErrPlayerNotFound          = errors.New("seat manager: player not found")
	ErrPlayerIsAlreadyExist    = errors.New("seat manager: player is already exist")
	ErrUnavailableSeat         = errors.New("seat manager: seat is not available")
	ErrSeatAlreadyIsTaken      = errors.New("seat manager: seat is already taken")
	ErrUnableToRotatePositions = errors.New("seat manager: unable to rotate positions")
)

const (
	UnsetSeatID = -1
)

// SeatManager keeps seat assignment (1..MaxSeats) and the button for one table.
type SeatManager interface {
	GetSeatID(playerID string) (int, error)
	AssignSeat(playerID string, seatID int) (int, error)
	RemoveSeat(playerID string) error
	UpdatePlayerHasChips(playerID string, hasChips bool) error
	InitPositions(isRandom bool) error
	RotatePositions() error

	Seats() map[int]*SeatPlayer
	MaxSeats() int
	PlayerCount() int
	CurrentDealerSeatID() int
	CurrentSBSeatID() int
	CurrentBBSeatID() int
	IsInitPositions() bool
	ListActivePlayers() []*SeatPlayer
}

type SeatPlayer struct {
	ID       string `json:"id"`
	SeatID   int    `json:"seat_id"`
	HasChips bool   `json:"has_chips"`
}

func (sp *SeatPlayer) Active() bool {
	return sp.HasChips
}

func NewSeatManager(maxSeats int) SeatManager {
	seats := make(map[int]*SeatPlayer)
	for seatID := 1; seatID <= maxSeats; seatID++ {
		seats[seatID] = nil
	}

	return &seatManager{
		maxSeat:      maxSeats,
		seats:        seats,
		dealerSeatID: UnsetSeatID,
		sbSeatID:     UnsetSeatID,
		bbSeatID:     UnsetSeatID,
	}
}
