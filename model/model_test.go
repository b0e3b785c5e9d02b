package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	assert.Equal(t, "Ah", NewCard(Ace, Heart).String())
	assert.Equal(t, "Td", NewCard(Ten, Diamond).String())
	assert.Equal(t, "2c", NewCard(Two, Club).String())
	assert.Equal(t, "Ks", NewCard(King, Spade).String())
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards("Ah td 2C")
	require.Nil(t, err)
	assert.Equal(t, []Card{
		{Rank: Ace, Suit: Heart},
		{Rank: Ten, Suit: Diamond},
		{Rank: Two, Suit: Club},
	}, cards)
	assert.Equal(t, "[Ah Td 2c]", FormatCards(cards))

	_, err = ParseCard("1h")
	assert.ErrorIs(t, err, ErrInvalidCard)
	_, err = ParseCard("Ax")
	assert.ErrorIs(t, err, ErrInvalidCard)
	_, err = ParseCard("Ahh")
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestDeck(t *testing.T) {
	d := NewDeck()
	assert.Equal(t, 52, d.Remaining())

	d.Shuffle(rand.New(rand.NewSource(7)))
	seen := make(map[Card]bool)
	for d.Remaining() > 0 {
		cards, err := d.Draw(1)
		require.Nil(t, err)
		assert.True(t, cards[0].Valid())
		assert.False(t, seen[cards[0]])
		seen[cards[0]] = true
	}
	assert.Len(t, seen, 52)

	_, err := d.Draw(1)
	assert.ErrorIs(t, err, ErrDeckExhausted)
}

func TestStreet(t *testing.T) {
	assert.Equal(t, "flop", Flop.String())
	assert.Equal(t, "River", River.Title())
	assert.Equal(t, Turn, Flop.Next())
	assert.Equal(t, River, River.Next())
	assert.Equal(t, 4, Turn.BoardSize())
	assert.Equal(t, Preflop, StreetForBoard(0))
	assert.Equal(t, Turn, StreetForBoard(4))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$0.05", FormatMoney(5))
	assert.Equal(t, "$2010.00", FormatMoney(201000))
	assert.Equal(t, "$1.50", FormatMoney(150))
}

func TestDeck_PeekExclude(t *testing.T) {
	d := NewDeckFromCards(MustParseCards("Ah Kd 7c 2s 9h"))
	d.Exclude(MustParseCards("Kd"))
	assert.Equal(t, 4, d.Remaining())

	peeked, err := d.Peek(1, 2)
	require.Nil(t, err)
	assert.Equal(t, MustParseCards("7c 2s"), peeked)
	assert.Equal(t, 4, d.Remaining())

	drawn, err := d.Draw(2)
	require.Nil(t, err)
	assert.Equal(t, MustParseCards("Ah 7c"), drawn)

	_, err = d.Peek(0, 3)
	assert.ErrorIs(t, err, ErrDeckExhausted)
}
