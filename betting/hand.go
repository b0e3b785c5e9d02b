package betting

import (
	"fmt"
	"time"

	"github.com/weedbox/pokerdojo/ledger"
	"github.com/weedbox/pokerdojo/model"
)

type HandSeat struct {
	Seat          int          `json:"seat"`
	PlayerID      string       `json:"player_id"`
	Name          string       `json:"name"`
	StartingStack int64        `json:"starting_stack"`
	EndingStack   int64        `json:"ending_stack"`
	HoleCards     []model.Card `json:"hole_cards"`
	Folded        bool         `json:"folded"`
}

type ShowdownHand struct {
	PlayerID    string       `json:"player_id"`
	Cards       []model.Card `json:"cards"`
	Description string       `json:"description"`
	Score       int32        `json:"score"`
}

// Hand is the finalized record of one played hand.
type Hand struct {
	ID             string             `json:"id"`
	Number         int                `json:"number"`
	TableName      string             `json:"table_name"`
	MaxSeats       int                `json:"max_seats"`
	SmallBlind     int64              `json:"small_blind"`
	BigBlind       int64              `json:"big_blind"`
	StartedAt      time.Time          `json:"started_at"`
	ButtonSeat     int                `json:"button_seat"`
	SmallBlindSeat int                `json:"small_blind_seat"`
	BigBlindSeat   int                `json:"big_blind_seat"`
	Seats          []HandSeat         `json:"seats"`
	Board          []model.Card       `json:"board"`
	Actions        []Record           `json:"actions"`
	TotalPot       int64              `json:"total_pot"` // everything contributed, before refunds and rake
	Settlement     *ledger.Settlement `json:"settlement"`
	Showdown       []ShowdownHand     `json:"showdown"` // seat order
	FinalState     State              `json:"final_state"`
}

// Hand returns the finalized record once the machine reached a terminal state.
func (m *Machine) Hand() (*Hand, error) {
	switch m.state {
	case State_HandComplete, State_AllPlayersFolded:
	case State_Aborted:
		return nil, fmt.Errorf("%w: %v", ErrHandAborted, m.abortErr)
	default:
		return nil, ErrHandNotFinished
	}

	h := &Hand{
		ID:             m.opts.HandID,
		Number:         m.opts.HandNumber,
		TableName:      m.opts.TableName,
		MaxSeats:       m.opts.MaxSeats,
		SmallBlind:     m.opts.SmallBlind,
		BigBlind:       m.opts.BigBlind,
		StartedAt:      m.opts.StartedAt,
		ButtonSeat:     m.players[m.buttonIdx].seat,
		SmallBlindSeat: m.players[m.sbIdx].seat,
		BigBlindSeat:   m.players[m.bbIdx].seat,
		Seats:          make([]HandSeat, 0, len(m.players)),
		Board:          m.Board(),
		Actions:        m.Actions(),
		Settlement:     m.result,
		Showdown:       make([]ShowdownHand, 0),
		FinalState:     m.state,
	}

	for _, r := range m.actions {
		h.TotalPot += r.Action.Contributed()
	}

	for _, p := range m.players {
		acct, _ := m.ledger.Account(p.id)
		cards := make([]model.Card, len(p.holeCards))
		copy(cards, p.holeCards)
		h.Seats = append(h.Seats, HandSeat{
			Seat:          p.seat,
			PlayerID:      p.id,
			Name:          p.name,
			StartingStack: p.startingStack,
			EndingStack:   acct.Stack,
			HoleCards:     cards,
			Folded:        acct.Folded,
		})

		if r, ok := m.showdown[p.id]; ok {
			h.Showdown = append(h.Showdown, ShowdownHand{
				PlayerID:    p.id,
				Cards:       cards,
				Description: r.Description,
				Score:       r.Score,
			})
		}
	}

	return h, nil
}

func (h *Hand) Seat(playerID string) (HandSeat, bool) {
	for _, s := range h.Seats {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return HandSeat{}, false
}

// ReachedStreet is the last street whose community cards were dealt.
func (h *Hand) ReachedStreet() model.Street {
	return model.StreetForBoard(len(h.Board))
}
