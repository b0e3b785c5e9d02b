// Package store persists finished hand histories.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidEntry    = errors.New("store: invalid entry")
	ErrAlreadyRecorded = errors.New("store: hand already recorded")
)

// Entry is one finished hand on its way to storage. Writers run in order and may
// fill in fields for the writers after them (FileWriter sets Path).
type Entry struct {
	SessionID  string    `json:"session_id"`
	HandNumber int       `json:"hand_number"`
	HandID     string    `json:"hand_id"`
	Text       string    `json:"-"`
	Pot        int64     `json:"pot"`
	Rake       int64     `json:"rake"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *Entry) validate() error {
	if e == nil || e.SessionID == "" || e.HandNumber <= 0 {
		return ErrInvalidEntry
	}
	return nil
}

type Writer interface {
	Write(ctx context.Context, entry *Entry) error
}

// Multi writes an entry to every writer in order and stops at the first failure.
type Multi []Writer

func (m Multi) Write(ctx context.Context, entry *Entry) error {
	for _, w := range m {
		if w == nil {
			continue
		}
		if err := w.Write(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}
