package handhistory

import (
	"fmt"
	"strings"

	"github.com/weedbox/pokerdojo/betting"
	"github.com/weedbox/pokerdojo/ledger"
	"github.com/weedbox/pokerdojo/model"
)

const (
	SiteName   = "PokerStars"
	GameName   = "Hold'em No Limit"
	TimeLayout = "2006/01/02 15:04:05"
)

var streetHeaders = map[model.Street]string{
	model.Flop:  "*** FLOP ***",
	model.Turn:  "*** TURN ***",
	model.River: "*** RIVER ***",
}

// FormatAction renders the phrase for one action, without the player name.
func FormatAction(a betting.Action) string {
	var phrase string
	switch act := a.(type) {
	case betting.PostSmallBlind:
		phrase = "posts small blind " + model.FormatMoney(act.Amount)
	case betting.PostBigBlind:
		phrase = "posts big blind " + model.FormatMoney(act.Amount)
	case betting.Check:
		return "checks"
	case betting.Bet:
		phrase = "bets " + model.FormatMoney(act.Amount)
	case betting.Call:
		phrase = "calls " + model.FormatMoney(act.Amount)
	case betting.Raise:
		phrase = fmt.Sprintf("raises %s to %s", model.FormatMoney(act.By), model.FormatMoney(act.To))
	case betting.Fold:
		return "folds"
	default:
		return "acts"
	}

	if a.IsAllIn() {
		phrase += ", and is all-in"
	}
	return phrase
}

// Serialize renders a finalized hand. The output only depends on h.
func Serialize(h *betting.Hand) string {
	w := &writer{hand: h}
	w.header()
	w.actions()
	w.summary()
	return w.String()
}

type writer struct {
	strings.Builder
	hand *betting.Hand
}

func (w *writer) line(format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) name(playerID string) string {
	if s, ok := w.hand.Seat(playerID); ok && s.Name != "" {
		return s.Name
	}
	return playerID
}

func (w *writer) header() {
	h := w.hand
	w.line("%s Hand #%s:  %s (%s/%s) - %s UTC",
		SiteName, h.ID, GameName,
		model.FormatMoney(h.SmallBlind), model.FormatMoney(h.BigBlind),
		h.StartedAt.UTC().Format(TimeLayout),
	)

	maxSeats := h.MaxSeats
	if maxSeats < len(h.Seats) {
		maxSeats = len(h.Seats)
	}
	w.line("Table '%s' %d-max Seat #%d is the button", h.TableName, maxSeats, h.ButtonSeat)

	for _, s := range h.Seats {
		w.line("Seat %d: %s (%s in chips)", s.Seat, w.name(s.PlayerID), model.FormatMoney(s.StartingStack))
	}
}

func (w *writer) actions() {
	h := w.hand

	lastSeq := 0
	for _, rec := range h.Actions {
		lastSeq = rec.Seq
	}

	blinds, streets := splitActions(h.Actions)
	for _, rec := range blinds {
		w.actionLine(rec, lastSeq)
	}

	w.line("*** HOLE CARDS ***")
	for _, s := range h.Seats {
		if len(s.HoleCards) > 0 {
			w.line("Dealt to %s %s", w.name(s.PlayerID), model.FormatCards(s.HoleCards))
		}
	}

	reached := h.ReachedStreet()
	for street := model.Preflop; street <= reached; street++ {
		if street > model.Preflop {
			w.streetHeader(street)
		}
		for _, rec := range streets[street] {
			w.actionLine(rec, lastSeq)
		}
	}

	if len(h.Showdown) > 0 {
		w.line("*** SHOW DOWN ***")
		for _, sd := range h.Showdown {
			w.line("%s: shows %s (%s)", w.name(sd.PlayerID), model.FormatCards(sd.Cards), sd.Description)
		}
		w.collected()
		return
	}

	w.collected()
	if h.Settlement != nil {
		for _, award := range h.Settlement.Awards {
			for _, id := range award.Winners {
				w.line("%s: doesn't show hand", w.name(id))
			}
		}
	}
}

func (w *writer) actionLine(rec betting.Record, lastSeq int) {
	w.line("%s: %s", w.name(rec.PlayerID), FormatAction(rec.Action))

	if rec.Seq == lastSeq {
		if refund := w.refund(); refund != nil {
			w.line("Uncalled bet (%s) returned to %s", model.FormatMoney(refund.Amount), w.name(refund.PlayerID))
		}
	}
}

func (w *writer) refund() *ledger.Refund {
	if w.hand.Settlement == nil {
		return nil
	}
	return w.hand.Settlement.Refund
}

func (w *writer) streetHeader(street model.Street) {
	board := w.hand.Board
	size := street.BoardSize()
	if len(board) < size {
		return
	}

	if street == model.Flop {
		w.line("%s %s", streetHeaders[street], model.FormatCards(board[:size]))
		return
	}
	w.line("%s %s %s", streetHeaders[street], model.FormatCards(board[:size-1]), model.FormatCards(board[size-1:size]))
}

func (w *writer) collected() {
	s := w.hand.Settlement
	if s == nil {
		return
	}

	for idx, award := range s.Awards {
		for _, id := range award.Winners {
			w.line("%s collected %s from %s", w.name(id), model.FormatMoney(award.Shares[id]), potName(idx, len(s.Awards)))
		}
	}
}

func potName(idx, count int) string {
	switch {
	case count <= 1:
		return "pot"
	case idx == 0:
		return "main pot"
	case count == 2:
		return "side pot"
	}
	return fmt.Sprintf("side pot-%d", idx)
}

func (w *writer) summary() {
	h := w.hand
	w.line("*** SUMMARY ***")

	var pot, rake int64
	if h.Settlement != nil {
		pot, rake = h.Settlement.Pot, h.Settlement.Rake
	}

	potLine := "Total pot " + model.FormatMoney(pot)
	if h.Settlement != nil && len(h.Settlement.Awards) > 1 {
		for idx, award := range h.Settlement.Awards {
			label := potName(idx, len(h.Settlement.Awards))
			potLine += fmt.Sprintf(" %s %s.", strings.ToUpper(label[:1])+label[1:], model.FormatMoney(award.Amount))
		}
	}
	w.line("%s | Rake %s", potLine, model.FormatMoney(rake))

	if len(h.Board) > 0 {
		w.line("Board %s", model.FormatCards(h.Board))
	}

	for _, s := range h.Seats {
		w.line("Seat %d: %s%s %s", s.Seat, w.name(s.PlayerID), w.markers(s.Seat), w.fate(s))
	}
}

func (w *writer) markers(seat int) string {
	h := w.hand
	m := ""
	if seat == h.ButtonSeat {
		m += " (button)"
	}
	if seat == h.SmallBlindSeat {
		m += " (small blind)"
	}
	if seat == h.BigBlindSeat {
		m += " (big blind)"
	}
	return m
}
