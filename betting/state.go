package betting

type State int

const (
	State_AwaitingBlinds State = iota
	State_BettingRound
	State_StreetComplete
	State_Showdown
	State_HandComplete
	State_AllPlayersFolded
	State_Aborted
)

var stateNames = map[State]string{
	State_AwaitingBlinds:   "awaiting_blinds",
	State_BettingRound:     "betting_round",
	State_StreetComplete:   "street_complete",
	State_Showdown:         "showdown",
	State_HandComplete:     "hand_complete",
	State_AllPlayersFolded: "all_players_folded",
	State_Aborted:          "aborted",
}

func (s State) String() string {
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == State_HandComplete || s == State_AllPlayersFolded || s == State_Aborted
}
