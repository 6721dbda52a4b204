package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Sender writes one message to an output port
type Sender func(msg gomidi.Message) error

// ErrPortNotFound is returned when no output port matches
var ErrPortNotFound = errors.New("midi output port not found")

// scanTimeout bounds port enumeration (CoreMIDI can hang)
const scanTimeout = 3 * time.Second

// OutPorts lists output ports, giving up after scanTimeout
func OutPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(scanTimeout):
		return nil, fmt.Errorf("midi port scan timed out after %s", scanTimeout)
	}
}

// OutPortNames lists output port names
func OutPortNames() ([]string, error) {
	outs, err := OutPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// MatchPort reports whether a port name satisfies the configured one.
// Matching is case-insensitive and accepts a prefix, since drivers append
// client/port numbers to names.
func MatchPort(portName, wanted string) bool {
	if wanted == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(portName), strings.ToLower(wanted))
}

// OpenOut opens the first output port matching name
func OpenOut(name string) (Sender, error) {
	outs, err := OutPorts()
	if err != nil {
		return nil, err
	}
	for _, out := range outs {
		if !MatchPort(out.String(), name) {
			continue
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("open output %q: %w", out.String(), err)
		}
		return send, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPortNotFound, name)
}

// Close shuts the MIDI driver down
func Close() {
	gomidi.CloseDriver()
}
