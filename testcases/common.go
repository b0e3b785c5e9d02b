// Package testcases plays scripted heads-up hands end to end through a session engine.
package testcases

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokerdojo"
	"github.com/weedbox/pokerdojo/model"
)

const eventTimeout = 5 * time.Second

// Table is a heads-up session between Alice (seat 1) and Bob (seat 2).
type Table struct {
	t         *testing.T
	Engine    pokerdojo.SessionEngine
	Session   *pokerdojo.Session
	updates   chan pokerdojo.TableUpdatedEvent
	completed chan pokerdojo.HandCompletedEvent
	rejected  chan pokerdojo.ActionRejectedEvent
	ended     chan pokerdojo.SessionEndedEvent
}

/*
NewHeadsUp 建立兩人桌並等待第一手開始
  - every hand is dealt from the same card order
  - actions never time out
*/
func NewHeadsUp(t *testing.T, setting pokerdojo.SessionSetting, cards string, opts ...pokerdojo.SessionEngineOpt) *Table {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	options := pokerdojo.NewSessionEngineOptions()
	options.ActionTimeout = 0
	options.DisconnectGrace = 0

	opts = append([]pokerdojo.SessionEngineOpt{
		pokerdojo.WithLogger(logger),
		pokerdojo.WithDeckFactory(func() *model.Deck {
			return model.NewDeckFromCards(model.MustParseCards(cards))
		}),
	}, opts...)

	table := &Table{
		t:         t,
		Engine:    pokerdojo.NewSessionEngine(options, opts...),
		updates:   make(chan pokerdojo.TableUpdatedEvent, 256),
		completed: make(chan pokerdojo.HandCompletedEvent, 16),
		rejected:  make(chan pokerdojo.ActionRejectedEvent, 16),
		ended:     make(chan pokerdojo.SessionEndedEvent, 1),
	}

	started := make(chan pokerdojo.GameStartedEvent, 1)
	table.Engine.OnGameStarted(func(e pokerdojo.GameStartedEvent) { started <- e })
	table.Engine.OnTableUpdated(func(e pokerdojo.TableUpdatedEvent) { table.updates <- e })
	table.Engine.OnHandCompleted(func(e pokerdojo.HandCompletedEvent) { table.completed <- e })
	table.Engine.OnActionRejected(func(e pokerdojo.ActionRejectedEvent) { table.rejected <- e })
	table.Engine.OnSessionEnded(func(e pokerdojo.SessionEndedEvent) { table.ended <- e })
	t.Cleanup(func() {
		_ = table.Engine.EndSession()
	})

	session, err := table.Engine.CreateSession(setting, pokerdojo.JoinPlayer{PlayerID: "alice", Name: "Alice", Identity: "owner-1"})
	require.NoError(t, err)
	require.NoError(t, table.Engine.PlayerJoin(pokerdojo.JoinPlayer{PlayerID: "bob", Name: "Bob"}))
	table.Session = session

	wait(t, started)
	table.ReadyAll()
	table.WaitUpdate("Hand #1 started")
	return table
}

func (table *Table) ReadyAll() {
	require.NoError(table.t, table.Engine.PlayerReady("alice"))
	require.NoError(table.t, table.Engine.PlayerReady("bob"))
}

// Act submits an action that must be accepted.
func (table *Table) Act(playerID string, action string, amount int64) {
	table.t.Helper()
	require.NoError(table.t, table.Engine.PlayerAction(playerID, action, amount), "%s %s %d", playerID, action, amount)
}

// WaitUpdate skips table updates until one carries the message.
func (table *Table) WaitUpdate(message string) pokerdojo.TableUpdatedEvent {
	table.t.Helper()
	deadline := time.After(eventTimeout)
	for {
		select {
		case e := <-table.updates:
			if e.Message == message {
				return e
			}
		case <-deadline:
			table.t.Fatalf("no table update %q", message)
		}
	}
}

func (table *Table) WaitCompleted() pokerdojo.HandCompletedEvent {
	return wait(table.t, table.completed)
}

func (table *Table) WaitRejected() pokerdojo.ActionRejectedEvent {
	return wait(table.t, table.rejected)
}

func (table *Table) WaitEnded() pokerdojo.SessionEndedEvent {
	e := wait(table.t, table.ended)
	<-table.Engine.Done()
	return e
}

func (table *Table) Stack(playerID string) int64 {
	p := table.Engine.GetSession().FindPlayer(playerID)
	require.NotNil(table.t, p)
	return p.Stack
}

func wait[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(eventTimeout):
		t.Fatal("event not received")
	}
	var zero T
	return zero
}
