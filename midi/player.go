package midi

import (
	"context"
	"sort"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"mandachord/config"
	"mandachord/debug"
	"mandachord/sequencer"
)

type pendingOff struct {
	at      time.Time
	channel uint8
	key     uint8
}

// Player sends a note for every active slot the playhead enters.
// Step events are queued without blocking the frame loop and played by Run.
type Player struct {
	cfg    *config.Config
	events chan sequencer.StepEvent

	mu   sync.Mutex
	send Sender

	pending []pendingOff
}

// NewPlayer creates a player; send may be nil until a port is connected
func NewPlayer(cfg *config.Config, send Sender) *Player {
	return &Player{
		cfg:    cfg,
		events: make(chan sequencer.StepEvent, 32),
		send:   send,
	}
}

// SetSender swaps the output (nil mutes)
func (p *Player) SetSender(send Sender) {
	p.mu.Lock()
	p.send = send
	p.mu.Unlock()
}

// Attach subscribes the player to a manager's step events
func (p *Player) Attach(m *sequencer.Manager) (detach func()) {
	return m.OnStep(p.Enqueue)
}

// Enqueue queues a step event, dropping it if the queue is full
func (p *Player) Enqueue(ev sequencer.StepEvent) {
	if len(ev.Notes) == 0 {
		return
	}
	select {
	case p.events <- ev:
	default:
		debug.Log("midi", "dropped step %d", ev.Step)
	}
}

// Run plays queued steps until ctx is done, then releases any held notes
func (p *Player) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		p.armTimer(timer)

		select {
		case <-ctx.Done():
			p.releaseAll()
			return
		case ev := <-p.events:
			p.trigger(ev)
		case <-timer.C:
			p.releaseDue(time.Now())
		}
	}
}

func (p *Player) armTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	if len(p.pending) == 0 {
		return
	}
	timer.Reset(max(time.Until(p.pending[0].at), 0))
}

func (p *Player) trigger(ev sequencer.StepEvent) {
	send := p.sender()
	if send == nil {
		return
	}

	gate := time.Duration(p.cfg.MIDI.GateMs) * time.Millisecond
	off := time.Now().Add(gate)

	for _, n := range ev.Notes {
		if n < 0 || n >= len(p.cfg.MIDI.Lanes) {
			continue
		}
		ch := uint8(p.cfg.LaneChannel(n) - 1)
		key := p.cfg.MIDI.Lanes[n].Note
		if err := send(gomidi.NoteOn(ch, key, p.cfg.MIDI.Velocity)); err != nil {
			debug.Log("midi", "note on %d/%d: %v", ch+1, key, err)
			continue
		}
		p.pending = append(p.pending, pendingOff{at: off, channel: ch, key: key})
	}
	sort.SliceStable(p.pending, func(i, j int) bool { return p.pending[i].at.Before(p.pending[j].at) })
	debug.Log("midi", "step=%d notes=%v", ev.Step, ev.Notes)
}

func (p *Player) releaseDue(now time.Time) {
	n := 0
	for n < len(p.pending) && !p.pending[n].at.After(now) {
		n++
	}
	p.release(p.pending[:n])
	p.pending = p.pending[n:]
}

func (p *Player) releaseAll() {
	p.release(p.pending)
	p.pending = nil
}

func (p *Player) release(offs []pendingOff) {
	send := p.sender()
	if send == nil {
		return
	}
	for _, o := range offs {
		send(gomidi.NoteOff(o.channel, o.key))
	}
}

func (p *Player) sender() Sender {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.send
}
