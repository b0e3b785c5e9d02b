package model

type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

var streetNames = map[Street]string{
	Preflop: "preflop",
	Flop:    "flop",
	Turn:    "turn",
	River:   "river",
}

var streetTitles = map[Street]string{
	Preflop: "Preflop",
	Flop:    "Flop",
	Turn:    "Turn",
	River:   "River",
}

func (s Street) String() string {
	return streetNames[s]
}

// Title is the capitalized name used in hand records ("folded on the Turn").
func (s Street) Title() string {
	return streetTitles[s]
}

// BoardSize returns how many community cards are visible once the street is dealt.
func (s Street) BoardSize() int {
	switch s {
	case Flop:
		return 3
	case Turn:
		return 4
	case River:
		return 5
	}
	return 0
}

func (s Street) Next() Street {
	if s >= River {
		return River
	}
	return s + 1
}

// StreetForBoard maps a board size back to the last street dealt.
func StreetForBoard(size int) Street {
	switch {
	case size >= 5:
		return River
	case size == 4:
		return Turn
	case size >= 3:
		return Flop
	}
	return Preflop
}
