package handhistory

import (
	"fmt"

	"github.com/weedbox/pokerdojo/betting"
	"github.com/weedbox/pokerdojo/model"
)

func splitActions(records []betting.Record) ([]betting.Record, map[model.Street][]betting.Record) {
	blinds := make([]betting.Record, 0, 2)
	streets := make(map[model.Street][]betting.Record)
	for _, rec := range records {
		if !rec.IsVoluntary() {
			blinds = append(blinds, rec)
			continue
		}
		streets[rec.Street] = append(streets[rec.Street], rec)
	}
	return blinds, streets
}

/*
fate describes how a seat left the hand, in priority order:
  - reached showdown: showed and won / showed and lost
  - logged fold: folded before Flop (didn't bet) / folded on the <Street>
  - won without showdown: collected
  - anything else is treated as a fold on the earliest street with community cards
*/
func (w *writer) fate(s betting.HandSeat) string {
	h := w.hand

	for _, sd := range h.Showdown {
		if sd.PlayerID != s.PlayerID {
			continue
		}
		won := w.winnings(s.PlayerID)
		if won > 0 {
			return fmt.Sprintf("showed %s and won (%s) with %s", model.FormatCards(sd.Cards), model.FormatMoney(won), sd.Description)
		}
		return fmt.Sprintf("showed %s and lost with %s", model.FormatCards(sd.Cards), sd.Description)
	}

	if street, ok := lastFold(h.Actions, s.PlayerID); ok {
		return w.foldedOn(s.PlayerID, street)
	}

	if won := w.winnings(s.PlayerID); won > 0 {
		return fmt.Sprintf("collected (%s)", model.FormatMoney(won))
	}

	if h.ReachedStreet() >= model.Flop {
		return w.foldedOn(s.PlayerID, model.Flop)
	}
	return w.foldedOn(s.PlayerID, model.Preflop)
}

func (w *writer) foldedOn(playerID string, street model.Street) string {
	if street > model.Preflop {
		return "folded on the " + street.Title()
	}
	if contributed(w.hand.Actions, playerID) == 0 {
		return "folded before Flop (didn't bet)"
	}
	return "folded before Flop"
}

func (w *writer) winnings(playerID string) int64 {
	if w.hand.Settlement == nil {
		return 0
	}
	return w.hand.Settlement.Winnings[playerID]
}

func lastFold(records []betting.Record, playerID string) (model.Street, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.PlayerID != playerID {
			continue
		}
		if _, ok := rec.Action.(betting.Fold); ok {
			return rec.Street, true
		}
	}
	return model.Preflop, false
}

func contributed(records []betting.Record, playerID string) int64 {
	var total int64
	for _, rec := range records {
		if rec.PlayerID == playerID {
			total += rec.Action.Contributed()
		}
	}
	return total
}
