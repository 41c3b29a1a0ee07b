package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type tags what produced a prompt history entry
type Type string

const (
	TypeSearch Type = "search"
	TypeDeal   Type = "deal"
	TypeEmail  Type = "email"
)

// DefaultLimit is the number of entries kept per owner when none is configured
const DefaultLimit = 50

var ErrOwnerRequired = errors.New("history owner is required")

// Entry is one recorded AI prompt
type Entry struct {
	ID        string            `json:"id"`
	Type      Type              `json:"type"`
	Query     string            `json:"query"`
	Params    map[string]string `json:"params,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Store keeps the most recent entries per owner, newest first
type Store interface {
	// Save records an entry, evicting the oldest once the limit is reached
	Save(ctx context.Context, owner string, entry Entry) error
	// List returns the owner's entries newest first. An empty type matches all.
	List(ctx context.Context, owner string, typ Type) ([]Entry, error)
	// Clear drops every entry of the owner
	Clear(ctx context.Context, owner string) error
	Close() error
}

// normalize fills the generated fields of an entry before it is stored
func normalize(owner string, entry *Entry) error {
	if owner == "" {
		return ErrOwnerRequired
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return nil
}

func filter(entries []Entry, typ Type) []Entry {
	if typ == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
