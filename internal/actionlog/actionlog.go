// Package actionlog records the admin change history: who added, changed or
// deleted which object, and when.
package actionlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	Addition Action = "add"
	Change   Action = "change"
	Deletion Action = "delete"
)

// Entry is one admin action.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Action     Action    `json:"action"`
	ModelLabel string    `json:"model_label"`
	ObjectID   string    `json:"object_id"`
	ObjectRepr string    `json:"object_repr"`
	Time       time.Time `json:"time"`
}

// Verb is the Portuguese past participle shown in the admin history.
func (e Entry) Verb() string {
	switch e.Action {
	case Addition:
		return "adicionado"
	case Change:
		return "alterado"
	case Deletion:
		return "removido"
	}
	return string(e.Action)
}

// Log keeps the most recent entries, newest first.
type Log interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, n int) ([]Entry, error)
}

// MaxEntries bounds how much history a Log retains.
const MaxEntries = 100

func NewEntry(username string, action Action, modelLabel, objectID, objectRepr string) Entry {
	return Entry{
		ID:         uuid.New(),
		Username:   username,
		Action:     action,
		ModelLabel: modelLabel,
		ObjectID:   objectID,
		ObjectRepr: objectRepr,
		Time:       time.Now(),
	}
}
