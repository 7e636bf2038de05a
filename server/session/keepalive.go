package session

import (
	"sync"
	"time"

	"github.com/brinewood/hollow/server/protocol"
)

// keepAliveInterval is how often a new keep-alive id is issued.
const keepAliveInterval = 20 * time.Second

// keepAliveTimeout is the maximum age an outstanding keep-alive id may
// reach before its session is considered dead.
const keepAliveTimeout = 30 * time.Second

// keepAliveTracker implements spec.md §4.7's two-slot keep-alive
// discipline: each issue stores its id and timestamp in one of two
// rotating slots, and reports whether any outstanding slot has aged past
// the timeout. Acks clear the slot with a matching id; an ack matching
// neither slot is a benign no-op (spec.md §9's open-question decision).
type keepAliveTracker struct {
	mu    sync.Mutex
	slots [2]keepAliveSlot
	next  int
}

type keepAliveSlot struct {
	id       int64
	issuedAt time.Time
	active   bool
}

func newKeepAliveTracker() *keepAliveTracker {
	return &keepAliveTracker{}
}

// issue records id in the next slot and reports whether any slot already
// outstanding has aged past keepAliveTimeout.
func (k *keepAliveTracker) issue(id int64) (timedOut bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := time.Now()
	for _, slot := range k.slots {
		if slot.active && now.Sub(slot.issuedAt) > keepAliveTimeout {
			timedOut = true
		}
	}
	k.slots[k.next] = keepAliveSlot{id: id, issuedAt: now, active: true}
	k.next = (k.next + 1) % len(k.slots)
	return timedOut
}

// ack clears the slot whose id exactly matches. Matching neither slot
// (including both being empty) does nothing.
func (k *keepAliveTracker) ack(id int64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.slots {
		if k.slots[i].active && k.slots[i].id == id {
			k.slots[i] = keepAliveSlot{}
			return
		}
	}
}

// runKeepAlive issues a keep_alive every keepAliveInterval until the
// session closes or a timeout is observed, per spec.md §5's
// one-thread-per-connection keep-alive model.
func (s *Session) runKeepAlive() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if s.closed.Load() {
				return
			}
			id := time.Now().UnixNano()
			if s.keepAlive.issue(id) {
				s.log.Debugf("session: keep-alive timeout")
				s.Close("keep-alive timeout")
				return
			}
			if err := s.WritePacket(&protocol.KeepAliveOut{ID: id}); err != nil {
				s.log.Debugf("session: keep-alive write: %v", err)
				s.Close("keep-alive write failure")
				return
			}
		}
	}
}
