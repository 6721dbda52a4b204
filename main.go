package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mandachord/config"
	"mandachord/debug"
	"mandachord/midi"
	"mandachord/sequencer"
	"mandachord/theme"
	"mandachord/tui"
)

var (
	// Global flags
	configPath  string
	portName    string
	channel     int
	debugLog    bool
	palettePath string
	fps         int
	dashSeed    int64

	force bool
)

// rootCmd opens the disc
var rootCmd = &cobra.Command{
	Use:   "mandachord",
	Short: "Circular 64-step sequencer for the terminal",
	Long: `mandachord is a circular step sequencer: 64 steps around a disc,
13 note rings per step. Click a dot to toggle it, drag the centre
circle to turn the disc while paused, and press space to play.

Active notes are sent to a MIDI output port when one is configured.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !debugLog {
			return nil
		}
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
	RunE: runDisc,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI output ports",
	RunE:  listPorts,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default config file",
	RunE:  initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.config/mandachord/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Write a debug log to "+debug.DefaultPath())

	rootCmd.Flags().StringVarP(&portName, "port", "p", "", "MIDI output port name (prefix match)")
	rootCmd.Flags().IntVar(&channel, "channel", 0, "Default MIDI channel 1-16")
	rootCmd.Flags().StringVar(&palettePath, "palette", "", "GIMP .gpl palette file")
	rootCmd.Flags().IntVar(&fps, "fps", 0, "Frames per second")
	rootCmd.Flags().Int64Var(&dashSeed, "seed", 0, "Seed for the pan circle dash pattern (0 = random)")

	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.ConfigPath()
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.MIDI.PortName = portName
	}
	if flags.Changed("channel") {
		cfg.MIDI.Channel = channel
	}
	if flags.Changed("palette") {
		cfg.UI.Palette = palettePath
	}
	if flags.Changed("fps") {
		cfg.UI.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.UI.DashSeed = dashSeed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTheme(cfg *config.Config) (*theme.Theme, error) {
	if cfg.UI.Palette == "" {
		return theme.New(theme.DefaultPalette()), nil
	}
	palette, err := theme.LoadGPL(cfg.UI.Palette)
	if err != nil {
		return nil, err
	}
	return theme.New(palette), nil
}

func runDisc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	th, err := loadTheme(cfg)
	if err != nil {
		return err
	}

	seed := cfg.UI.DashSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	manager := sequencer.NewManager()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// MIDI output: the player follows the playhead, the watcher follows the port
	player := midi.NewPlayer(cfg, nil)
	detach := player.Attach(manager)
	defer detach()

	playerDone := make(chan struct{})
	go func() {
		player.Run(ctx)
		close(playerDone)
	}()

	opts := tui.Options{FPS: cfg.UI.FPS, DashSeed: seed}
	if cfg.MIDI.PortName != "" {
		watcher := midi.NewPortWatcher(cfg.MIDI.PortName)
		go watcher.Run(ctx)

		opts.Ports = watcher.Events()
		opts.OnPort = func(ev midi.PortEvent) error {
			if ev.Type == midi.PortDisconnected {
				player.SetSender(nil)
				return nil
			}
			send, err := midi.OpenOut(ev.Name)
			if err != nil {
				return err
			}
			player.SetSender(send)
			return nil
		}
	}

	debug.Log("main", "start port=%q channel=%d fps=%d seed=%d", cfg.MIDI.PortName, cfg.MIDI.Channel, cfg.UI.FPS, seed)

	p := tea.NewProgram(tui.NewModel(manager, th, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	// Let the player release held notes before the driver goes away
	cancel()
	<-playerDone
	midi.Close()

	return runErr
}

func listPorts(cmd *cobra.Command, args []string) error {
	defer midi.Close()

	names, err := midi.OutPortNames()
	if err != nil {
		return err
	}

	wanted := ""
	if path, err := resolveConfigPath(); err == nil {
		if cfg, err := config.LoadFrom(path); err == nil {
			wanted = cfg.MIDI.PortName
		}
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "no MIDI output ports")
		return nil
	}
	for i, name := range names {
		mark := " "
		if midi.MatchPort(name, wanted) {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %d: %s\n", mark, i, name)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
