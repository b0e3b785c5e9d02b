package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCard = errors.New("model: invalid card")
)

type Suit int

const (
	Club Suit = iota
	Diamond
	Heart
	Spade
)

var suitSymbols = map[Suit]string{
	Club:    "c",
	Diamond: "d",
	Heart:   "h",
	Spade:   "s",
}

func (s Suit) String() string {
	return suitSymbols[s]
}

// Rank runs from 2 to 14 (Ace high).
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

const rankSymbols = "23456789TJQKA"

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankSymbols[r-Two])
}

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Club && c.Suit <= Spade
}

// ParseCard accepts two-character notation such as "Ah", "Td" or "2c".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	idx := strings.IndexByte(rankSymbols, strings.ToUpper(s[:1])[0])
	if idx < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	var suit Suit
	switch s[1] {
	case 'c', 'C':
		suit = Club
	case 'd', 'D':
		suit = Diamond
	case 'h', 'H':
		suit = Heart
	case 's', 'S':
		suit = Spade
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	return Card{Rank: Two + Rank(idx), Suit: suit}, nil
}

// ParseCards parses a space separated card list, e.g. "Ah Kd 7c".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards the way hand records expect: "[Ah Kd 7c]".
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
