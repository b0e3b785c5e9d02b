package pokerdojo

type SessionStatus string

type Session struct {
	ID           string           `json:"id"`
	Setting      SessionSetting   `json:"setting"`
	Owner        string           `json:"owner"` // identity charged for the hand quota
	Status       SessionStatus    `json:"status"`
	Players      []*SessionPlayer `json:"players"` // seat order
	HandNumber   int              `json:"hand_number"`
	ButtonSeat   int              `json:"button_seat"`
	CreatedAt    int64            `json:"created_at"`
	UpdateAt     int64            `json:"update_at"`
	UpdateSerial int64            `json:"update_serial"`
	EndReason    string           `json:"end_reason,omitempty"`
}

type SessionPlayer struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Identity  string `json:"identity"`
	Seat      int    `json:"seat"`
	Stack     int64  `json:"stack"`
	Connected bool   `json:"connected"`
}

func (s *Session) FindPlayer(playerID string) *SessionPlayer {
	for _, p := range s.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}

func (s *Session) PlayerIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.PlayerID)
	}
	return ids
}

// Clone returns a deep copy safe to hand out of the engine.
func (s *Session) Clone() *Session {
	c := *s
	c.Players = make([]*SessionPlayer, 0, len(s.Players))
	for _, p := range s.Players {
		copied := *p
		c.Players = append(c.Players, &copied)
	}
	return &c
}
