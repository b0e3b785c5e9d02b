package model

import (
	"errors"
	"math/rand"
)

var (
	ErrDeckExhausted = errors.New("model: deck exhausted")
)

type Deck struct {
	cards []Card
	next  int
}

func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for suit := Club; suit <= Spade; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return &Deck{cards: cards}
}

// NewDeckFromCards builds a stacked deck; cards are dealt in the given order.
func NewDeckFromCards(cards []Card) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c}
}

func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	d.next = 0
}

func (d *Deck) Draw(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	drawn := make([]Card, n)
	copy(drawn, d.cards[d.next:d.next+n])
	d.next += n
	return drawn, nil
}

// Peek returns n cards starting offset positions past the next card without dealing them.
func (d *Deck) Peek(offset, n int) ([]Card, error) {
	start := d.next + offset
	if start < 0 || start+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	peeked := make([]Card, n)
	copy(peeked, d.cards[start:start+n])
	return peeked, nil
}

// Exclude removes cards that were dealt by other means, e.g. preset hole cards.
func (d *Deck) Exclude(cards []Card) {
	kept := d.cards[:d.next:d.next]
	for _, c := range d.cards[d.next:] {
		excluded := false
		for _, x := range cards {
			if c == x {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, c)
		}
	}
	d.cards = kept
}

func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
