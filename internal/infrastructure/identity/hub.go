package identity

import (
	"sync"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

// changeHub fans session changes out to every client bound to a session id.
// Sign-out on one device reaches subscribers on every other device holding
// the same session.
type changeHub struct {
	mu     sync.Mutex
	subs   map[string]map[int]func(domain.SessionChange)
	nextID int
}

func newChangeHub() *changeHub {
	return &changeHub{subs: make(map[string]map[int]func(domain.SessionChange))}
}

// subscribe registers handler for changes on sid and returns an unsubscribe
// function.
func (h *changeHub) subscribe(sid string, handler func(domain.SessionChange)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[sid] == nil {
		h.subs[sid] = make(map[int]func(domain.SessionChange))
	}
	h.subs[sid][id] = handler
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if handlers, ok := h.subs[sid]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(h.subs, sid)
			}
		}
	}
}

// publish delivers change to all subscribers of sid. Handlers run on the
// caller's goroutine.
func (h *changeHub) publish(sid string, change domain.SessionChange) {
	h.mu.Lock()
	handlers := make([]func(domain.SessionChange), 0, len(h.subs[sid]))
	for _, fn := range h.subs[sid] {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}
