package pokerdojo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/pokerdojo/seat_manager"
)

/*
submit 玩家請求
  - one request is applied at a time by run()
  - a full queue is rejected with ErrActionInProgress instead of blocking the caller
*/
func (se *sessionEngine) submit(action RequestAction, param interface{}) error {
	se.lock.Lock()
	created := se.session != nil
	se.lock.Unlock()
	if !created {
		return ErrSessionEnded
	}

	req := &Request{
		Action: action,
		Param:  param,
		done:   make(chan error, 1),
	}

	select {
	case <-se.quit:
		return ErrSessionEnded
	default:
	}

	select {
	case se.incoming <- req:
	default:
		return ErrActionInProgress
	}

	select {
	case err := <-req.done:
		return err
	case <-se.quit:
		// the request that ended the session still reports its own result
		select {
		case err := <-req.done:
			return err
		default:
			return ErrSessionEnded
		}
	}
}

// post enqueues an internal request from a timer or the ready gate.
func (se *sessionEngine) post(action RequestAction, param interface{}) {
	req := &Request{
		Action: action,
		Param:  param,
	}

	go func() {
		select {
		case se.incoming <- req:
		case <-se.quit:
		}
	}()
}

func (se *sessionEngine) run() {
	for {
		req := <-se.incoming

		err := se.requestHandler(req)
		if req.done != nil {
			req.done <- err
		}

		se.lock.Lock()
		ended := se.ended
		se.lock.Unlock()

		if ended {
			close(se.quit)
			se.dispatcher.close()
			return
		}
	}
}

func (se *sessionEngine) requestHandler(req *Request) error {
	handlers := map[RequestAction]func(interface{}) error{
		RequestAction_PlayerJoin:       se.handlePlayerJoin,
		RequestAction_PlayerReady:      se.handlePlayerReady,
		RequestAction_PlayerAction:     se.handlePlayerAction,
		RequestAction_PlayerConnection: se.handlePlayerConnection,
		RequestAction_AutoFold:         se.handleAutoFold,
		RequestAction_OpenHand:         se.handleOpenHand,
		RequestAction_EndSession:       se.handleEndSession,
	}

	handler, ok := handlers[req.Action]
	if !ok {
		return fmt.Errorf("session: unknown request %s", req.Action)
	}

	se.lock.Lock()
	defer se.lock.Unlock()

	if se.ended {
		return ErrSessionEnded
	}

	return handler(req.Param)
}

func (se *sessionEngine) handlePlayerJoin(param interface{}) error {
	player := param.(JoinPlayer)

	if _, err := se.seatPlayer(player); err != nil {
		se.logger.WithField("player_id", player.PlayerID).WithError(err).Info("player join rejected")
		return err
	}
	se.emitSessionJoined(player.PlayerID)

	if se.session.Status == SessionStatus_Created && len(se.session.Players) >= se.session.Setting.MinPlayers {
		se.startGame()
	}

	return nil
}

func (se *sessionEngine) handlePlayerReady(param interface{}) error {
	playerID := param.(string)

	if se.session.FindPlayer(playerID) == nil {
		return ErrPlayerNotFound
	}

	return se.ogm.Ready(playerID)
}

func (se *sessionEngine) handlePlayerAction(param interface{}) error {
	return se.applyPlayerAction(param.(PlayerActionParam), "")
}

func (se *sessionEngine) handlePlayerConnection(param interface{}) error {
	p := param.(PlayerConnectionParam)

	player := se.session.FindPlayer(p.PlayerID)
	if player == nil {
		return ErrPlayerNotFound
	}
	if player.Connected == p.Connected {
		return nil
	}
	player.Connected = p.Connected

	message := fmt.Sprintf("%s disconnected", player.Name)
	if p.Connected {
		message = fmt.Sprintf("%s reconnected", player.Name)
	} else if se.session.Status == SessionStatus_Standby {
		// a disconnected player must not hold up the next hand
		_ = se.ogm.Ready(p.PlayerID)
	}

	if se.machine != nil && se.machine.CurrentActor() == p.PlayerID {
		se.scheduleActionTimer()
	}

	se.emitTableUpdated(p.PlayerID, message)

	return nil
}

func (se *sessionEngine) handleAutoFold(param interface{}) error {
	p := param.(AutoFoldParam)

	// stale timer: the actor already acted or the hand moved on
	if se.machine == nil ||
		se.session.HandNumber != p.HandNumber ||
		len(se.machine.Actions()) != p.Seq ||
		se.machine.CurrentActor() != p.PlayerID {
		return nil
	}

	se.logger.WithFields(logrus.Fields{
		"hand_number": p.HandNumber,
		"player_id":   p.PlayerID,
	}).Info("auto-fold on timeout")

	return se.applyPlayerAction(PlayerActionParam{
		PlayerID: p.PlayerID,
		Action:   PlayerAction_Fold,
	}, " (timeout)")
}

func (se *sessionEngine) handleOpenHand(param interface{}) error {
	handNumber := param.(int)

	// released by a ready gate that no longer matches the session
	if se.session.Status != SessionStatus_Standby || handNumber != se.session.HandNumber+1 {
		return nil
	}

	return se.openHand()
}

func (se *sessionEngine) handleEndSession(param interface{}) error {
	return se.endSession(param.(string))
}

// seatPlayer assigns a seat and appends the player with the starting stack.
func (se *sessionEngine) seatPlayer(player JoinPlayer) (int, error) {
	if player.PlayerID == "" {
		return UnsetValue, fmt.Errorf("%w: player id is required", ErrInvalidPlayer)
	}
	if se.session.FindPlayer(player.PlayerID) != nil {
		return UnsetValue, ErrPlayerAlreadyJoined
	}

	seat := player.Seat
	if seat <= 0 {
		seat = seat_manager.UnsetSeatID
	}

	seatID, err := se.sm.AssignSeat(player.PlayerID, seat)
	if err != nil {
		switch {
		case errors.Is(err, seat_manager.ErrNotEnoughSeats):
			return UnsetValue, ErrSessionFull
		case errors.Is(err, seat_manager.ErrPlayerIsAlreadyExist):
			return UnsetValue, ErrPlayerAlreadyJoined
		}
		return UnsetValue, fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
	}

	name := player.Name
	if name == "" {
		name = player.PlayerID
	}

	se.session.Players = append(se.session.Players, &SessionPlayer{
		PlayerID:  player.PlayerID,
		Name:      name,
		Identity:  player.Identity,
		Seat:      seatID,
		Stack:     se.session.Setting.StartingStack,
		Connected: true,
	})
	sort.Slice(se.session.Players, func(i, j int) bool {
		return se.session.Players[i].Seat < se.session.Players[j].Seat
	})

	return seatID, nil
}

func (se *sessionEngine) emitSessionJoined(playerID string) {
	player := se.session.FindPlayer(playerID)
	e := SessionJoinedEvent{
		SessionID: se.session.ID,
		PlayerID:  playerID,
		Seat:      player.Seat,
		Players:   se.session.Clone().Players,
	}
	se.emitEvent(Event_SessionJoined, playerID, func() {
		se.onSessionJoined(e)
	})
}

func (se *sessionEngine) startGame() {
	se.session.Status = SessionStatus_Standby

	e := GameStartedEvent{
		SessionID: se.session.ID,
		TableID:   se.session.ID,
		Players:   se.session.Clone().Players,
	}
	se.emitEvent(Event_GameStarted, "", func() {
		se.onGameStarted(e)
	})

	se.waitForReady()
}
