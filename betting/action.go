package betting

import "github.com/weedbox/pokerdojo/model"

type ActionKind string

const (
	ActionKind_PostSmallBlind ActionKind = "post-small-blind"
	ActionKind_PostBigBlind   ActionKind = "post-big-blind"
	ActionKind_Check          ActionKind = "check"
	ActionKind_Bet            ActionKind = "bet"
	ActionKind_Call           ActionKind = "call"
	ActionKind_Raise          ActionKind = "raise"
	ActionKind_Fold           ActionKind = "fold"
)

// Action is one of PostSmallBlind, PostBigBlind, Check, Bet, Call, Raise or Fold.
type Action interface {
	Kind() ActionKind
	Contributed() int64 // chips moved into the pot by this action
	IsAllIn() bool
}

type PostSmallBlind struct {
	Amount int64 `json:"amount"`
	AllIn  bool  `json:"all_in"`
}

type PostBigBlind struct {
	Amount int64 `json:"amount"`
	AllIn  bool  `json:"all_in"`
}

type Check struct{}

type Bet struct {
	Amount int64 `json:"amount"`
	AllIn  bool  `json:"all_in"`
}

type Call struct {
	Amount int64 `json:"amount"`
	AllIn  bool  `json:"all_in"`
}

type Raise struct {
	By     int64 `json:"by"`     // increment over the bet faced
	To     int64 `json:"to"`     // resulting street total to match
	Amount int64 `json:"amount"` // chips added by this action
	AllIn  bool  `json:"all_in"`
}

type Fold struct{}

func (PostSmallBlind) Kind() ActionKind { return ActionKind_PostSmallBlind }
func (PostBigBlind) Kind() ActionKind   { return ActionKind_PostBigBlind }
func (Check) Kind() ActionKind          { return ActionKind_Check }
func (Bet) Kind() ActionKind            { return ActionKind_Bet }
func (Call) Kind() ActionKind           { return ActionKind_Call }
func (Raise) Kind() ActionKind          { return ActionKind_Raise }
func (Fold) Kind() ActionKind           { return ActionKind_Fold }

func (a PostSmallBlind) Contributed() int64 { return a.Amount }
func (a PostBigBlind) Contributed() int64   { return a.Amount }
func (Check) Contributed() int64            { return 0 }
func (a Bet) Contributed() int64            { return a.Amount }
func (a Call) Contributed() int64           { return a.Amount }
func (a Raise) Contributed() int64          { return a.Amount }
func (Fold) Contributed() int64             { return 0 }

func (a PostSmallBlind) IsAllIn() bool { return a.AllIn }
func (a PostBigBlind) IsAllIn() bool   { return a.AllIn }
func (Check) IsAllIn() bool            { return false }
func (a Bet) IsAllIn() bool            { return a.AllIn }
func (a Call) IsAllIn() bool           { return a.AllIn }
func (a Raise) IsAllIn() bool          { return a.AllIn }
func (Fold) IsAllIn() bool             { return false }

// Record is an entry of the append-only action log.
type Record struct {
	Seq      int          `json:"seq"`
	Street   model.Street `json:"street"`
	PlayerID string       `json:"player_id"`
	Action   Action       `json:"action"`
}

// IsVoluntary reports whether the record is a player decision rather than a forced blind.
func (r Record) IsVoluntary() bool {
	switch r.Action.(type) {
	case PostSmallBlind, PostBigBlind:
		return false
	}
	return true
}
