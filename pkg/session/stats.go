package session

import (
	"context"
	"log/slog"
	"sync"
)

// Stats aggregates the events seen on a bus: how many of each kind, and how
// many distinct sessions produced them.
type Stats struct {
	mu       sync.Mutex
	counts   map[EventKind]int
	sessions map[string]struct{}
	dropped  uint64
}

// StatsSnapshot is a point-in-time copy of Stats, shaped for JSON.
type StatsSnapshot struct {
	Events   map[EventKind]int `json:"events"`
	Sessions int               `json:"sessions"`
	Dropped  uint64            `json:"dropped"`
}

// NewStats returns empty stats.
func NewStats() *Stats {
	return &Stats{
		counts:   make(map[EventKind]int),
		sessions: make(map[string]struct{}),
	}
}

// Record counts e.
func (s *Stats) Record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[e.Kind]++
	if e.SessionID != "" {
		s.sessions[e.SessionID] = struct{}{}
	}
}

// Snapshot copies the current counts.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make(map[EventKind]int, len(s.counts))
	for k, v := range s.counts {
		events[k] = v
	}

	return StatsSnapshot{Events: events, Sessions: len(s.sessions), Dropped: s.dropped}
}

func (s *Stats) setDropped(n uint64) {
	s.mu.Lock()
	s.dropped = n
	s.mu.Unlock()
}

// Watch records every event from sub until ctx is done or sub is closed,
// then logs a summary. It blocks; run it in its own goroutine.
func (s *Stats) Watch(ctx context.Context, sub *Subscription, log *slog.Logger) {
	defer func() {
		s.setDropped(sub.Dropped())

		snap := s.Snapshot()
		log.Info("event summary",
			"sessions", snap.Sessions,
			"display_changed", snap.Events[EventDisplayChanged],
			"errors", snap.Events[EventError],
			"cleared", snap.Events[EventCleared],
			"dropped", snap.Dropped,
		)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.C:
			if !ok {
				return
			}
			s.Record(e)
			s.setDropped(sub.Dropped())
			if e.Kind == EventError {
				log.Debug("session error observed", "session", e.SessionID, "action", e.Action)
			}
		}
	}
}
