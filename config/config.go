package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mandachord/sequencer"
)

// Lane routes one note position (ring) of the disc to a MIDI note
type Lane struct {
	Note    uint8 `json:"note"`
	Channel int   `json:"channel,omitempty"` // 1-16, 0 = MIDI.Channel
}

// Lanes holds one Lane per note position, innermost ring first
type Lanes [sequencer.NotesPerStep]Lane

// UnmarshalJSON merges a lane list by index: lanes missing from a short list,
// and fields missing from a lane, keep their current values.
func (l *Lanes) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) > len(l) {
		return fmt.Errorf("%d lanes given, the disc has %d", len(raw), len(l))
	}
	for i, r := range raw {
		if err := json.Unmarshal(r, &l[i]); err != nil {
			return fmt.Errorf("lane %d: %w", i, err)
		}
	}
	return nil
}

// MIDIConfig defines the trigger output
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  int    `json:"channel"`
	Velocity uint8  `json:"velocity"`
	GateMs   int    `json:"gateMs"`
	Lanes    Lanes  `json:"lanes"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette  string `json:"palette,omitempty"` // path to a .gpl file, empty = built-in
	FPS      int    `json:"fps"`
	DashSeed int64  `json:"dashSeed,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MIDI MIDIConfig `json:"midi"`
	UI   UIConfig   `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults: three percussion
// rings (GM drums on channel 10), five bass and five melody rings.
func DefaultConfig() *Config {
	cfg := &Config{
		MIDI: MIDIConfig{
			Channel:  1,
			Velocity: 100,
			GateMs:   100,
		},
		UI: UIConfig{
			FPS: 60,
		},
	}

	percussion := []uint8{36, 38, 42}
	bass := []uint8{36, 38, 40, 43, 45}
	melody := []uint8{60, 62, 64, 67, 69}

	i := 0
	for _, n := range percussion {
		cfg.MIDI.Lanes[i] = Lane{Note: n, Channel: 10}
		i++
	}
	for _, n := range bass {
		cfg.MIDI.Lanes[i] = Lane{Note: n, Channel: 2}
		i++
	}
	for _, n := range melody {
		cfg.MIDI.Lanes[i] = Lane{Note: n}
		i++
	}
	return cfg
}

// Validate checks ranges the rest of the program relies on
func (c *Config) Validate() error {
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi channel %d out of range 1-16", c.MIDI.Channel)
	}
	for i, l := range c.MIDI.Lanes {
		if l.Channel < 0 || l.Channel > 16 {
			return fmt.Errorf("lane %d: channel %d out of range 0-16", i, l.Channel)
		}
		if l.Note > 127 {
			return fmt.Errorf("lane %d: note %d out of range 0-127", i, l.Note)
		}
	}
	if c.MIDI.Velocity > 127 {
		return fmt.Errorf("velocity %d out of range 0-127", c.MIDI.Velocity)
	}
	if c.MIDI.GateMs <= 0 {
		return fmt.Errorf("gate %dms must be positive", c.MIDI.GateMs)
	}
	if c.UI.FPS < 1 || c.UI.FPS > 240 {
		return fmt.Errorf("fps %d out of range 1-240", c.UI.FPS)
	}
	return nil
}

// LaneChannel returns the 1-based channel a lane plays on
func (c *Config) LaneChannel(lane int) int {
	if lane < 0 || lane >= len(c.MIDI.Lanes) || c.MIDI.Lanes[lane].Channel == 0 {
		return c.MIDI.Channel
	}
	return c.MIDI.Lanes[lane].Channel
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mandachord"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from its default location, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields defaults;
// fields absent from the file keep their default values, lanes included.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to its default location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
