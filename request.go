package pokerdojo

type RequestAction string

const (
	RequestAction_PlayerJoin       RequestAction = "PlayerJoin"
	RequestAction_PlayerReady      RequestAction = "PlayerReady"
	RequestAction_PlayerAction     RequestAction = "PlayerAction"
	RequestAction_PlayerConnection RequestAction = "PlayerConnection"
	RequestAction_AutoFold         RequestAction = "AutoFold"
	RequestAction_OpenHand         RequestAction = "OpenHand"
	RequestAction_EndSession       RequestAction = "EndSession"
)

type Request struct {
	Action RequestAction
	Param  interface{}
	done   chan error // nil for internal requests
}

type PlayerActionParam struct {
	PlayerID string
	Action   string
	Amount   int64 // street total for bet and raise
}

type PlayerConnectionParam struct {
	PlayerID  string
	Connected bool
}

// AutoFoldParam pins a timeout to the decision it was scheduled for.
type AutoFoldParam struct {
	PlayerID   string
	HandNumber int
	Seq        int
}
