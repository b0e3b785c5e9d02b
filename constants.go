package pokerdojo

const (
	// General
	UnsetValue = -1

	// SessionStatus
	SessionStatus_Created SessionStatus = "created" // 等待玩家入座
	SessionStatus_Standby SessionStatus = "standby" // 等待玩家準備下一手
	SessionStatus_Playing SessionStatus = "playing"
	SessionStatus_Ended   SessionStatus = "ended"

	// Player Action
	PlayerAction_Fold  = "fold"
	PlayerAction_Check = "check"
	PlayerAction_Call  = "call"
	PlayerAction_Bet   = "bet"
	PlayerAction_Raise = "raise"
	PlayerAction_AllIn = "allin"

	// Session end reasons
	EndReason_Requested      = "requested"
	EndReason_QuotaExhausted = "quota exhausted"
	EndReason_NotEnoughChips = "not enough players with chips"
	EndReason_Aborted        = "hand could not be opened"
)
