package midi

import (
	"context"
	"time"

	"mandachord/debug"
)

// PortEvent is emitted when the watched output port appears or disappears
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

// PortWatcher polls for the configured output port (hot-plug)
type PortWatcher struct {
	wanted   string
	list     func() ([]string, error)
	events   chan PortEvent
	pollRate time.Duration

	current string // matched port name, "" when absent
}

// NewPortWatcher watches for an output port matching wanted
func NewPortWatcher(wanted string) *PortWatcher {
	return &PortWatcher{
		wanted:   wanted,
		list:     OutPortNames,
		events:   make(chan PortEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns the connect/disconnect channel. It is closed when Run returns.
func (w *PortWatcher) Events() <-chan PortEvent {
	return w.events
}

// Run polls until ctx is done (blocking - run in goroutine)
func (w *PortWatcher) Run(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	// Initial scan
	if !w.scan(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.scan(ctx) {
				return
			}
		}
	}
}

// scan compares the port list with the last one seen; false when ctx ended mid-send
func (w *PortWatcher) scan(ctx context.Context) bool {
	names, err := w.list()
	if err != nil {
		// Port enumeration hung - skip this scan
		debug.Log("midi", "scan: %v", err)
		return true
	}

	found := ""
	for _, n := range names {
		if MatchPort(n, w.wanted) {
			found = n
			break
		}
	}

	switch {
	case found != "" && w.current == "":
		w.current = found
		return w.emit(ctx, PortEvent{Type: PortConnected, Name: found})
	case found == "" && w.current != "":
		gone := w.current
		w.current = ""
		return w.emit(ctx, PortEvent{Type: PortDisconnected, Name: gone})
	}
	return true
}

func (w *PortWatcher) emit(ctx context.Context, ev PortEvent) bool {
	debug.Log("midi", "port event type=%d name=%q", ev.Type, ev.Name)
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
