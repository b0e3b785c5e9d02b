package pokerdojo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"github.com/weedbox/pokerdojo/betting"
	"github.com/weedbox/pokerdojo/handhistory"
	"github.com/weedbox/pokerdojo/model"
	"github.com/weedbox/pokerdojo/seat_manager"
	"github.com/weedbox/pokerdojo/store"
)

// waitForReady arms the ready gate for the next hand with every seat that still has chips.
func (se *sessionEngine) waitForReady() {
	participants := make(map[string]int)
	for _, p := range se.session.Players {
		if p.Stack > 0 {
			participants[p.PlayerID] = p.Seat
		}
	}

	se.ogm.Setup(se.session.HandNumber+1, participants)

	for _, p := range se.session.Players {
		if p.Stack > 0 && !p.Connected {
			_ = se.ogm.Ready(p.PlayerID)
		}
	}
}

/*
openHand 開局
  - the owner's hand quota is consumed first
  - the scenario may override blinds, reset stacks and constrain the flop
  - the button moves to the next seat with chips
*/
func (se *sessionEngine) openHand() error {
	handNumber := se.session.HandNumber + 1
	logger := se.logger.WithField("hand_number", handNumber)

	if se.quota != nil {
		remaining, err := se.quota.AcquireHand(se.session.Owner)
		if err != nil {
			logger.WithError(err).Info("hand quota rejected")
			return se.endSession(EndReason_QuotaExhausted)
		}
		logger.WithField("remaining", remaining).Debug("hand quota acquired")
	}

	setting := se.session.Setting
	smallBlind, bigBlind := setting.SmallBlind, setting.BigBlind
	narrative := setting.Narrative
	var constraint FlopConstraint

	if se.scenario != nil {
		scenario, err := se.scenario.HandScenario(se.session.ID, handNumber)
		if err != nil {
			logger.WithError(err).Warn("scenario unavailable, using session settings")
		} else {
			if scenario.SmallBlind > 0 && scenario.BigBlind >= scenario.SmallBlind {
				smallBlind, bigBlind = scenario.SmallBlind, scenario.BigBlind
			}
			if scenario.ResetStacks && scenario.StartingStack > 0 {
				for _, p := range se.session.Players {
					p.Stack = scenario.StartingStack
					_ = se.sm.UpdatePlayerHasChips(p.PlayerID, true)
				}
			}
			if scenario.Narrative != "" {
				narrative = scenario.Narrative
			}
			constraint = scenario.FlopConstraint
		}
	}

	var err error
	if se.sm.IsInitPositions() {
		err = se.sm.RotatePositions()
	} else {
		err = se.sm.InitPositions(false)
	}
	if err != nil {
		logger.WithError(err).Info("unable to move the button")
		if errors.Is(err, seat_manager.ErrNotEnoughPlayers) || errors.Is(err, seat_manager.ErrUnableToRotatePositions) {
			return se.endSession(EndReason_NotEnoughChips)
		}
		return err
	}

	seats := make([]betting.SeatSetting, 0, len(se.session.Players))
	for _, p := range se.session.Players {
		if p.Stack <= 0 {
			continue
		}
		seats = append(seats, betting.SeatSetting{
			Seat:     p.Seat,
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Stack:    p.Stack,
		})
	}

	deck, err := se.dealDeck(len(seats), constraint)
	if err != nil {
		logger.WithError(err).Warn("flop constraint dropped for this hand")
		deck = se.newDeck()
	}

	machine, err := betting.NewMachine(betting.Options{
		HandID:     se.handID(handNumber),
		HandNumber: handNumber,
		TableName:  setting.TableName,
		MaxSeats:   setting.MaxSeats,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		ButtonSeat: se.sm.CurrentDealerSeatID(),
		Seats:      seats,
		Deck:       deck,
		Evaluator:  se.evaluator,
		Rake:       setting.Rake,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		logger.WithError(err).Error("unable to open hand")
		return se.endSession(EndReason_Aborted)
	}
	if err := machine.PostBlinds(); err != nil {
		logger.WithError(err).Error("unable to post blinds")
		return se.endSession(EndReason_Aborted)
	}
	// blinds may already put everyone all-in
	if err := machine.AdvanceAll(); err != nil {
		logger.WithError(err).Error("hand aborted")
	}

	se.machine = machine
	se.session.HandNumber = handNumber
	se.session.ButtonSeat = se.sm.CurrentDealerSeatID()
	se.session.Status = SessionStatus_Playing

	logger.WithFields(logrus.Fields{
		"button_seat": se.session.ButtonSeat,
		"players":     len(seats),
	}).Info("hand opened")

	message := fmt.Sprintf("Hand #%d started", handNumber)
	if narrative != "" {
		message = fmt.Sprintf("%s: %s", message, narrative)
	}
	se.emitTableUpdated("", message)

	if machine.State().Terminal() {
		se.finishHand()
		return nil
	}

	se.scheduleActionTimer()
	return nil
}

// dealDeck re-samples the shuffled deck until the flop satisfies the constraint.
func (se *sessionEngine) dealDeck(players int, constraint FlopConstraint) (*model.Deck, error) {
	for attempt := 0; attempt < maxFlopResample; attempt++ {
		deck := se.newDeck()
		if constraint == nil {
			return deck, nil
		}

		// hole cards are dealt from the top, the flop follows
		flop, err := deck.Peek(2*players, 3)
		if err != nil {
			return nil, err
		}
		if constraint(flop) {
			return deck, nil
		}
	}

	return nil, ErrFlopConstraint
}

func (se *sessionEngine) handID(handNumber int) string {
	return fmt.Sprintf("%d%04d", se.session.CreatedAt, handNumber)
}

func resolveActionKind(action string) (betting.ActionKind, bool) {
	switch action {
	case PlayerAction_Fold:
		return betting.ActionKind_Fold, true
	case PlayerAction_Check:
		return betting.ActionKind_Check, true
	case PlayerAction_Call:
		return betting.ActionKind_Call, true
	case PlayerAction_Bet:
		return betting.ActionKind_Bet, true
	case PlayerAction_Raise:
		return betting.ActionKind_Raise, true
	}
	return "", false
}

// resolveAllIn picks the action that commits the actor's whole stack, or the best available.
func resolveAllIn(legal betting.LegalActions) (betting.ActionKind, int64) {
	switch {
	case funk.Contains(legal.Kinds, betting.ActionKind_Raise):
		return betting.ActionKind_Raise, legal.MaxRaiseTo
	case funk.Contains(legal.Kinds, betting.ActionKind_Bet):
		return betting.ActionKind_Bet, legal.MaxRaiseTo
	case funk.Contains(legal.Kinds, betting.ActionKind_Call):
		return betting.ActionKind_Call, 0
	}
	return betting.ActionKind_Check, 0
}

/*
applyPlayerAction 玩家動作
  - a rejected action is reported to the actor only
  - the actor's timer is cancelled once the action is applied
*/
func (se *sessionEngine) applyPlayerAction(param PlayerActionParam, suffix string) error {
	reject := func(err error) error {
		se.emitActionRejected(param, err)
		return err
	}

	player := se.session.FindPlayer(param.PlayerID)
	if player == nil {
		return reject(ErrPlayerNotFound)
	}
	if se.machine == nil || se.machine.State().Terminal() {
		return reject(ErrNoHandInProgress)
	}

	var kind betting.ActionKind
	amount := param.Amount
	if param.Action == PlayerAction_AllIn {
		legal := se.machine.LegalActions(param.PlayerID)
		if len(legal.Kinds) == 0 {
			return reject(fmt.Errorf("%w: not %s's turn", betting.ErrIllegalAction, param.PlayerID))
		}
		kind, amount = resolveAllIn(legal)
	} else {
		k, ok := resolveActionKind(param.Action)
		if !ok {
			return reject(fmt.Errorf("%w: unknown action %q", betting.ErrIllegalAction, param.Action))
		}
		kind = k
	}

	rec, err := se.machine.ApplyAction(param.PlayerID, kind, amount)
	if err != nil {
		return reject(err)
	}
	se.tb.Cancel()

	if err := se.machine.AdvanceAll(); err != nil {
		se.logger.WithField("hand_number", se.session.HandNumber).WithError(err).Error("hand aborted")
	}

	se.emitTableUpdated(param.PlayerID, fmt.Sprintf("%s: %s%s", player.Name, handhistory.FormatAction(rec.Action), suffix))

	if se.machine.State().Terminal() {
		se.finishHand()
		return nil
	}

	se.scheduleActionTimer()
	return nil
}

// scheduleActionTimer auto-folds the current actor unless they act first.
func (se *sessionEngine) scheduleActionTimer() {
	se.tb.Cancel()

	if se.machine == nil || se.machine.State() != betting.State_BettingRound {
		return
	}

	actor := se.machine.CurrentActor()
	player := se.session.FindPlayer(actor)
	if player == nil {
		return
	}

	timeout := se.options.ActionTimeout
	if !player.Connected {
		timeout = se.options.DisconnectGrace
	}
	if timeout <= 0 {
		return
	}

	param := AutoFoldParam{
		PlayerID:   actor,
		HandNumber: se.session.HandNumber,
		Seq:        len(se.machine.Actions()),
	}
	if err := se.tb.NewTask(timeout, func(isCancelled bool) {
		if isCancelled {
			return
		}
		se.post(RequestAction_AutoFold, param)
	}); err != nil {
		se.logger.WithError(err).Warn("unable to schedule action timer")
	}
}

// syncStacks copies the hand's ledger back to the seats.
func (se *sessionEngine) syncStacks() {
	for _, acct := range se.machine.Ledger().Accounts() {
		player := se.session.FindPlayer(acct.ID)
		if player == nil {
			continue
		}
		player.Stack = acct.Stack
		_ = se.sm.UpdatePlayerHasChips(acct.ID, acct.Stack > 0)
	}
}

/*
finishHand 結算
  - stacks are taken from the ledger, aborted hands included
  - the history is persisted off the request loop
  - the session continues while two seats have chips
*/
func (se *sessionEngine) finishHand() {
	se.tb.Cancel()
	logger := se.logger.WithField("hand_number", se.session.HandNumber)

	hand, err := se.machine.Hand()
	se.syncStacks()
	se.machine = nil

	if err != nil {
		logger.WithError(err).Error("hand aborted, contributions returned")
		se.emitTableUpdated("", fmt.Sprintf("Hand #%d aborted", se.session.HandNumber))
		se.continueOrEnd()
		return
	}

	se.handsPlayed++
	history := handhistory.Serialize(hand)

	logger.WithFields(logrus.Fields{
		"hand_id": hand.ID,
		"pot":     hand.Settlement.Pot,
		"rake":    hand.Settlement.Rake,
	}).Info("hand completed")

	se.persist(&store.Entry{
		SessionID:  se.session.ID,
		HandNumber: hand.Number,
		HandID:     hand.ID,
		Text:       history,
		Pot:        hand.Settlement.Pot,
		Rake:       hand.Settlement.Rake,
		CreatedAt:  hand.StartedAt,
	})

	winnings := make(map[string]int64)
	for id, amount := range hand.Settlement.Winnings {
		winnings[id] = amount
	}
	e := HandCompletedEvent{
		TableID:    se.session.ID,
		HandNumber: hand.Number,
		HandID:     hand.ID,
		Winnings:   winnings,
		Rake:       hand.Settlement.Rake,
		History:    history,
		PlayerIDs:  se.session.PlayerIDs(),
	}
	se.emitEvent(Event_HandCompleted, "", func() {
		se.onHandCompleted(e)
	})

	se.continueOrEnd()
}

func (se *sessionEngine) continueOrEnd() {
	withChips := 0
	for _, p := range se.session.Players {
		if p.Stack > 0 {
			withChips++
		}
	}

	if withChips < 2 {
		_ = se.endSession(EndReason_NotEnoughChips)
		return
	}

	se.session.Status = SessionStatus_Standby
	se.waitForReady()
}

func (se *sessionEngine) persist(entry *store.Entry) {
	if se.writer == nil {
		return
	}

	se.persisting.Add(1)
	go func() {
		defer se.persisting.Done()

		ctx := context.Background()
		if se.options.PersistTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, se.options.PersistTimeout)
			defer cancel()
		}

		logger := se.logger.WithFields(logrus.Fields{
			"hand_number": entry.HandNumber,
			"hand_id":     entry.HandID,
		})
		if err := se.writer.Write(ctx, entry); err != nil {
			logger.WithError(err).Warn("unable to persist hand history")
			return
		}
		logger.WithField("path", entry.Path).Debug("hand history persisted")
	}()
}

/*
endSession 結束 session
  - a hand in progress is aborted and every contribution returned
  - pending hand histories are written before the session is marked ended
*/
func (se *sessionEngine) endSession(reason string) error {
	if se.ended {
		return ErrSessionEnded
	}

	se.tb.Cancel()
	se.ogm.Stop()

	if se.machine != nil {
		if !se.machine.State().Terminal() {
			se.machine.Ledger().Abort()
			se.logger.WithField("hand_number", se.session.HandNumber).Warn("hand in progress aborted by session end")
		}
		se.syncStacks()
		se.machine = nil
	}

	se.persisting.Wait()

	se.session.Status = SessionStatus_Ended
	se.session.EndReason = reason
	se.ended = true

	se.logger.WithFields(logrus.Fields{
		"reason":       reason,
		"hands_played": se.handsPlayed,
	}).Info("session ended")

	e := SessionEndedEvent{
		SessionID:   se.session.ID,
		Reason:      reason,
		HandsPlayed: se.handsPlayed,
		PlayerIDs:   se.session.PlayerIDs(),
	}
	se.emitEvent(Event_SessionEnded, "", func() {
		se.onSessionEnded(e)
	})

	return nil
}

func (se *sessionEngine) emitTableUpdated(playerID string, message string) {
	e := TableUpdatedEvent{
		TableID:    se.session.ID,
		Message:    message,
		HandNumber: se.session.HandNumber,
		Stacks:     make(map[string]int64),
		PlayerIDs:  se.session.PlayerIDs(),
	}

	for _, p := range se.session.Players {
		e.Stacks[p.PlayerID] = p.Stack
	}

	if m := se.machine; m != nil {
		e.Street = m.Street().String()
		if board := m.Board(); len(board) > 0 {
			e.Board = model.FormatCards(board)
		}
		e.Pot = m.Ledger().TotalPot()
		for _, acct := range m.Ledger().Accounts() {
			e.Stacks[acct.ID] = acct.Stack
		}

		if m.State() == betting.State_BettingRound {
			e.CurrentPlayer = m.CurrentActor()
			e.ActionRequired = true
			legal := m.LegalActions(e.CurrentPlayer)
			e.LegalActions = &legal
		}
	}

	se.emitEvent(Event_TableUpdated, playerID, func() {
		se.onTableUpdated(e)
	})
}
