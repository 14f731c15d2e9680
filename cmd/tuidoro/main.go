// Package main provides the CLI entrypoint for tuidoro.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidoro/internal/config"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/timer"
	"github.com/verte-zerg/tuidoro/internal/tui"
)

const (
	defaultFocus          = 25
	defaultShortBreak     = 5
	defaultLongBreak      = 15
	defaultLongBreakEvery = 4
)

// Environment overrides, also read from a .env file in the working directory.
const (
	envDB       = "TUIDORO_DB"
	envConfig   = "TUIDORO_CONFIG"
	envLogLevel = "TUIDORO_LOG_LEVEL"
)

var (
	timerFocus          int
	timerShortBreak     int
	timerLongBreak      int
	timerLongBreakEvery int
)

func main() {
	loadDotEnv()
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuidoro",
		Short:         "TUI focus timer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().IntVar(&timerFocus, "focus", defaultFocus, "focus length in minutes (a length set in the timer with d overrides it until cleared with an empty value)")
	rootCmd.Flags().IntVar(&timerShortBreak, "short-break", defaultShortBreak, "short break length in minutes")
	rootCmd.Flags().IntVar(&timerLongBreak, "long-break", defaultLongBreak, "long break length in minutes")
	rootCmd.Flags().IntVar(&timerLongBreakEvery, "long-break-every", defaultLongBreakEvery, "focus sessions per day before a long break")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newWipeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	applyIntConfig(cmd, "focus", &timerFocus, fileCfg.Timer.Focus)
	applyIntConfig(cmd, "short-break", &timerShortBreak, fileCfg.Timer.ShortBreak)
	applyIntConfig(cmd, "long-break", &timerLongBreak, fileCfg.Timer.LongBreak)
	applyIntConfig(cmd, "long-break-every", &timerLongBreakEvery, fileCfg.Timer.LongBreakEvery)
	if err := validateTimerFlags(); err != nil {
		return err
	}
	durations := model.Durations{
		Focus:          time.Duration(timerFocus) * time.Minute,
		ShortBreak:     time.Duration(timerShortBreak) * time.Minute,
		LongBreak:      time.Duration(timerLongBreak) * time.Minute,
		LongBreakEvery: timerLongBreakEvery,
	}

	bridge := tui.NewBridge()
	a, err := openApp(durations, timer.TickerScheduler{}, bridge.Emit)
	if err != nil {
		return err
	}
	defer a.Close()
	restored := a.orch.Restore()
	slog.Info("timer started", "restored", restored.Kind.String(), "mode", restored.Mode)

	ui := tui.NewModel(a.orch, a.tasks, os.Stdout)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	ui.Replay(bridge.Attach(program))

	stopRollover, err := tui.StartRollover(func() {
		a.orch.Rollover()
		program.Send(tui.RolloverMsg{})
	})
	if err != nil {
		return fmt.Errorf("failed to schedule day rollover: %w", err)
	}
	defer stopRollover()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// setup loads the config file and installs the file logger. Every command
// calls it first.
func setup() (config.FileConfig, func(), error) {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := ""
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		level = v
	}
	closeLog, err := setupLogging(config.DefaultLogPath(), level)
	if err != nil {
		return config.FileConfig{}, nil, err
	}
	return fileCfg, closeLog, nil
}

// durationsFromConfig applies only the config file; subcommands do not take
// timer flags.
func durationsFromConfig(fileCfg config.FileConfig) model.Durations {
	return fileCfg.Timer.Apply(model.DefaultDurations())
}

func setupLogging(path, level string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, opts)))
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logErrf("failed to load .env: %v\n", err)
	}
}

func dbPath() string {
	if v := strings.TrimSpace(os.Getenv(envDB)); v != "" {
		return v
	}
	return config.DefaultDBPath()
}

func configPath() string {
	if v := strings.TrimSpace(os.Getenv(envConfig)); v != "" {
		return v
	}
	return config.DefaultConfigPath()
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateTimerFlags() error {
	if timerFocus <= 0 {
		return fmt.Errorf("--focus must be > 0")
	}
	if timerShortBreak <= 0 {
		return fmt.Errorf("--short-break must be > 0")
	}
	if timerLongBreak <= 0 {
		return fmt.Errorf("--long-break must be > 0")
	}
	if timerLongBreakEvery <= 0 {
		return fmt.Errorf("--long-break-every must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
