package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"mandachord/config"
	"mandachord/midi"
	"mandachord/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.Close()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "audition":
		audition(portArg())
	case "watch":
		watch(portArg())
	case "panic":
		allNotesOff(portArg())
	default:
		usage()
	}
}

func usage() {
	fmt.Println("mandachord MIDI port tool")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list            - List MIDI output ports")
	fmt.Println("  audition [port] - Play every lane once, inner ring first")
	fmt.Println("  watch [port]    - Report the port appearing/disappearing")
	fmt.Println("  panic [port]    - Send all-notes-off on every channel")
	fmt.Println("")
	fmt.Println("[port] defaults to midi.portName from the config file.")
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func portArg() string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	return loadConfig().MIDI.PortName
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.OutPortNames()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func open(name string) midi.Sender {
	if name == "" {
		fmt.Println("No port given and none configured")
		return nil
	}
	send, err := midi.OpenOut(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	return send
}

func audition(name string) {
	send := open(name)
	if send == nil {
		return
	}
	cfg := loadConfig()
	gate := time.Duration(cfg.MIDI.GateMs) * time.Millisecond
	step := time.Duration(sequencer.MsPerStep) * time.Millisecond

	for lane, l := range cfg.MIDI.Lanes {
		ch := cfg.LaneChannel(lane)
		fmt.Printf("lane %2d: note %3d ch %2d\n", lane, l.Note, ch)
		send(gomidi.NoteOn(uint8(ch-1), l.Note, cfg.MIDI.Velocity))
		time.Sleep(gate)
		send(gomidi.NoteOff(uint8(ch-1), l.Note))
		if gate < step {
			time.Sleep(step - gate)
		}
	}
	fmt.Println("Done!")
}

func watch(name string) {
	if name == "" {
		fmt.Println("No port given and none configured")
		return
	}
	fmt.Printf("Watching for %q. Ctrl+C to exit.\n", name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := midi.NewPortWatcher(name)
	go w.Run(ctx)

	for ev := range w.Events() {
		state := "connected"
		if ev.Type == midi.PortDisconnected {
			state = "disconnected"
		}
		fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), ev.Name, state)
	}
}

func allNotesOff(name string) {
	send := open(name)
	if send == nil {
		return
	}
	for ch := uint8(0); ch < 16; ch++ {
		// CC 123 = all notes off
		send(gomidi.ControlChange(ch, 123, 0))
	}
	fmt.Println("Sent all-notes-off on channels 1-16")
}
