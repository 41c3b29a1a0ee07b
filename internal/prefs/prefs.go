package prefs

import (
	"context"
	"errors"
	"sync"
)

var ErrOwnerRequired = errors.New("settings owner is required")

// Settings are the per-user UI toggles
type Settings struct {
	DarkMode bool `json:"darkMode"`
	Sound    bool `json:"sound"`
	Haptic   bool `json:"haptic"`
}

// Defaults returns the settings of a user who never saved any
func Defaults() Settings {
	return Settings{DarkMode: false, Sound: true, Haptic: true}
}

// Store persists settings and notifies subscribers of changes
type Store interface {
	Get(ctx context.Context, owner string) (Settings, error)
	Set(ctx context.Context, owner string, s Settings) error
	// Subscribe streams every later change of the owner's settings until ctx
	// is done, then closes the channel.
	Subscribe(ctx context.Context, owner string) (<-chan Settings, error)
	Close() error
}

// hub fans a change out to the local subscribers of an owner. Slow
// subscribers miss updates rather than block the writer.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Settings]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan Settings]struct{})}
}

func (h *hub) subscribe(ctx context.Context, owner string) <-chan Settings {
	ch := make(chan Settings, 8)

	h.mu.Lock()
	if h.subs[owner] == nil {
		h.subs[owner] = make(map[chan Settings]struct{})
	}
	h.subs[owner][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[owner]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, owner)
			}
		}
	}()
	return ch
}

func (h *hub) publish(owner string, s Settings) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[owner] {
		select {
		case ch <- s:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for owner, set := range h.subs {
		for ch := range set {
			close(ch)
		}
		delete(h.subs, owner)
	}
}
