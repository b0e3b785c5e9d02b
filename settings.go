package pokerdojo

import (
	"fmt"

	"github.com/weedbox/pokerdojo/ledger"
)

type SessionSetting struct {
	TableName     string          `json:"table_name"`
	MaxSeats      int             `json:"max_seats"`
	MinPlayers    int             `json:"min_players"`
	SmallBlind    int64           `json:"small_blind"`
	BigBlind      int64           `json:"big_blind"`
	StartingStack int64           `json:"starting_stack"`
	Rake          ledger.RakeRule `json:"rake"`
	Narrative     string          `json:"narrative"` // preflop scenario text
}

type JoinPlayer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Identity string `json:"identity"`
	Seat     int    `json:"seat"` // UnsetValue picks the lowest empty seat
}

func NewDefaultSessionSetting() SessionSetting {
	return SessionSetting{
		TableName:     "Dojo",
		MaxSeats:      2,
		MinPlayers:    2,
		SmallBlind:    50,
		BigBlind:      100,
		StartingStack: 10000,
		Rake: ledger.RakeRule{
			Percent:      5,
			Cap:          100,
			NoFlopNoDrop: true,
		},
	}
}

func (s SessionSetting) validate() error {
	switch {
	case s.MaxSeats < 2:
		return fmt.Errorf("%w: max seats %d", ErrInvalidSetting, s.MaxSeats)
	case s.MinPlayers < 2 || s.MinPlayers > s.MaxSeats:
		return fmt.Errorf("%w: min players %d", ErrInvalidSetting, s.MinPlayers)
	case s.SmallBlind <= 0 || s.BigBlind < s.SmallBlind:
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidSetting, s.SmallBlind, s.BigBlind)
	case s.StartingStack <= 0:
		return fmt.Errorf("%w: starting stack %d", ErrInvalidSetting, s.StartingStack)
	}
	return nil
}
