package midi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/goleak"

	"mandachord/config"
	"mandachord/sequencer"
)

type sent struct {
	on       bool
	channel  uint8
	key      uint8
	velocity uint8
}

type recorder struct {
	mu  sync.Mutex
	msg []sent
}

func (r *recorder) send(msg gomidi.Message) error {
	var ch, key, vel uint8
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		r.msg = append(r.msg, sent{on: true, channel: ch, key: key, velocity: vel})
	case msg.GetNoteOff(&ch, &key, &vel):
		r.msg = append(r.msg, sent{channel: ch, key: key})
	}
	return nil
}

func (r *recorder) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.msg...)
}

func TestPlayerTriggersAndReleases(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.DefaultConfig()
	cfg.MIDI.GateMs = 5
	rec := &recorder{}
	p := NewPlayer(cfg, rec.send)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	p.Enqueue(sequencer.StepEvent{Step: 3, Notes: []int{0, 12}})

	require.Eventually(t, func() bool { return len(rec.all()) == 4 }, time.Second, time.Millisecond)
	cancel()
	<-done

	msgs := rec.all()
	assert.Equal(t, sent{on: true, channel: 9, key: 36, velocity: 100}, msgs[0])
	assert.Equal(t, sent{on: true, channel: 0, key: 69, velocity: 100}, msgs[1])
	assert.ElementsMatch(t, []sent{{channel: 9, key: 36}, {channel: 0, key: 69}}, msgs[2:])
}

func TestPlayerReleasesHeldNotesOnStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.DefaultConfig()
	cfg.MIDI.GateMs = 60_000
	rec := &recorder{}
	p := NewPlayer(cfg, rec.send)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	p.Enqueue(sequencer.StepEvent{Step: 0, Notes: []int{5}})
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)

	cancel()
	<-done
	msgs := rec.all()
	require.Len(t, msgs, 2)
	assert.False(t, msgs[1].on)
	assert.Equal(t, uint8(40), msgs[1].key)
}

func TestPlayerAttachedToManager(t *testing.T) {
	cfg := config.DefaultConfig()
	p := NewPlayer(cfg, nil)

	m := sequencer.NewManager()
	require.NoError(t, m.Toggle(sequencer.NoteID{Step: 0, Note: 1}))
	detach := p.Attach(m)

	m.TogglePlay()
	m.Frame(10)
	require.Len(t, p.events, 1)
	ev := <-p.events
	assert.Equal(t, []int{1}, ev.Notes)

	detach()
	m.Frame(200)
	assert.Len(t, p.events, 0)
}

func TestEnqueueSkipsEmptyStepsAndDropsWhenFull(t *testing.T) {
	p := NewPlayer(config.DefaultConfig(), nil)
	p.Enqueue(sequencer.StepEvent{Step: 1})
	assert.Len(t, p.events, 0)

	for i := 0; i < cap(p.events)+5; i++ {
		p.Enqueue(sequencer.StepEvent{Step: i % sequencer.NumSteps, Notes: []int{0}})
	}
	assert.Len(t, p.events, cap(p.events))
}

func TestMutedPlayerSendsNothing(t *testing.T) {
	rec := &recorder{}
	p := NewPlayer(config.DefaultConfig(), rec.send)
	p.SetSender(nil)
	p.trigger(sequencer.StepEvent{Step: 0, Notes: []int{0}})
	p.releaseAll()
	assert.Empty(t, rec.all())
}

func TestMatchPort(t *testing.T) {
	assert.True(t, MatchPort("IAC Driver Bus 1", "iac driver"))
	assert.True(t, MatchPort("Midi Through:Midi Through Port-0 14:0", "Midi Through"))
	assert.False(t, MatchPort("Launchpad X", "IAC"))
	assert.False(t, MatchPort("anything", ""))
}

func TestPortWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	ports := []string{"Other"}
	fail := false

	w := NewPortWatcher("Synth")
	w.pollRate = time.Millisecond
	w.list = func() ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("scan timed out")
		}
		return append([]string(nil), ports...), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	mu.Lock()
	ports = append(ports, "Synth A 20:0")
	mu.Unlock()

	ev := <-w.Events()
	assert.Equal(t, PortEvent{Type: PortConnected, Name: "Synth A 20:0"}, ev)

	// a failed scan is not a disconnect
	mu.Lock()
	fail = true
	mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	fail = false
	ports = []string{"Other"}
	mu.Unlock()

	ev = <-w.Events()
	assert.Equal(t, PortEvent{Type: PortDisconnected, Name: "Synth A 20:0"}, ev)

	cancel()
	for range w.Events() {
	}
}
