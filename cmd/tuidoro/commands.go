package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidoro/internal/backup"
	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/config"
	"github.com/verte-zerg/tuidoro/internal/stats"
	"github.com/verte-zerg/tuidoro/internal/statsui"
	"github.com/verte-zerg/tuidoro/internal/store"
)

const (
	defaultTopTasks      = 10
	achievementWrapWidth = 80
)

var (
	statsDays  int
	statsTop   int
	statsPlain bool

	exportFormat string
	exportOut    string

	importFormat string
	importYes    bool

	wipeYes bool
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show timer state and today's progress",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	a, restored, err := openRestored(durationsFromConfig(fileCfg))
	if err != nil {
		return err
	}
	defer a.Close()

	ov := a.orch.Overview()
	snap := ov.Snapshot
	state := "stopped"
	switch {
	case snap.Running:
		state = "running"
	case snap.RemainingSeconds < snap.TotalSeconds:
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("Mode: %s (%s)", snap.Mode.Label(), state),
		fmt.Sprintf("Remaining: %02d:%02d", snap.RemainingSeconds/60, snap.RemainingSeconds%60),
	}
	if restored.Completed() {
		lines = append(lines, fmt.Sprintf("%s finished while tuidoro was closed.", restored.Mode.Label()))
	}
	if ov.Selected != nil {
		lines = append(lines, "Task: "+ov.Selected.Name)
	}
	lines = append(lines,
		fmt.Sprintf("Level: %d (%d XP)", ov.Level, ov.Experience),
		fmt.Sprintf("Streak: %d day(s)", ov.Streak),
		fmt.Sprintf("Today: %d / %d sessions", ov.Goal.SessionsToday, ov.Goal.Target),
	)
	out := cmd.OutOrStdout()
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsDays, "days", stats.DefaultTrendDays, "trend length in days")
	cmd.Flags().IntVar(&statsTop, "top", defaultTopTasks, "number of tasks to list")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if statsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	fileCfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	a, _, err := openRestored(durationsFromConfig(fileCfg))
	if err != nil {
		return err
	}
	defer a.Close()

	load := func(days int) (stats.Report, error) {
		return stats.BuildReport(a.orch.Overview(), a.ledger, days, statsTop), nil
	}
	if statsPlain || !stats.IsTerminal(os.Stdout) {
		report, err := load(statsDays)
		if err != nil {
			return err
		}
		return renderPlainStats(cmd.OutOrStdout(), report)
	}

	program := tea.NewProgram(statsui.NewModel(load, statsDays), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderWeek(w, report.Week); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTasks(w, report.Tasks); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(w, report, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE:  runAchievementsCmd,
	}
}

func runAchievementsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	a, _, err := openRestored(durationsFromConfig(fileCfg))
	if err != nil {
		return err
	}
	defer a.Close()

	ov := a.orch.Overview()
	var b strings.Builder
	fmt.Fprintf(&b, "# Achievements (%d / %d)\n\n", ov.UnlockedCount(), len(ov.Achievements))
	for _, s := range ov.Achievements {
		if s.UnlockedAt != nil {
			fmt.Fprintf(&b, "- [x] **%s**: %s _(%s)_\n", s.Title, s.Description, s.UnlockedAt.Local().Format("2006-01-02"))
			continue
		}
		fmt.Fprintf(&b, "- [ ] %s: %s\n", s.Title, s.Description)
	}

	out := b.String()
	if stats.IsTerminal(os.Stdout) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(achievementWrapWidth),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		if out, err = renderer.Render(out); err != nil {
			return fmt.Errorf("failed to render achievements: %w", err)
		}
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records to a backup file",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", string(backup.FormatJSON), "json or yaml")
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := backup.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	_, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	st, err := store.Open(dbPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var buf bytes.Buffer
	doc := backup.Export(store.NewRecords(st), clock.Real{})
	if err := backup.Encode(&buf, doc, format); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if exportOut == "" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(exportOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	logErrf("Exported %d session(s) to %s\n", len(doc.History), exportOut)
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import records from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default: detect)")
	cmd.Flags().BoolVar(&importYes, "yes", false, "skip confirmation")
	return cmd
}

func runImportCmd(_ *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	format := backup.DetectFormat(path, data)
	if importFormat != "" {
		if format, err = backup.ParseFormat(importFormat); err != nil {
			return err
		}
	}
	// Validate before asking so a bad file fails fast.
	doc, err := backup.Decode(data, format)
	if err != nil {
		return err
	}
	if !importYes {
		ok, err := confirm(fmt.Sprintf("Import %d session(s) from %s?", len(doc.History), filepath.Base(path)),
			"Records present in the file replace the current ones.")
		if err != nil {
			return err
		}
		if !ok {
			logErrf("Import cancelled.\n")
			return nil
		}
	}

	_, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	st, err := store.Open(dbPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	keys, err := backup.Import(context.Background(), st, data, format)
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}
	logErrf("Imported %s\n", strings.Join(keys, ", "))
	return nil
}

func newWipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Reset experience, streak, daily goal and achievements",
		Args:  cobra.NoArgs,
		RunE:  runWipeCmd,
	}
	cmd.Flags().BoolVar(&wipeYes, "yes", false, "skip confirmation")
	return cmd
}

func runWipeCmd(_ *cobra.Command, _ []string) error {
	if !wipeYes {
		ok, err := confirm("Reset all progress?", "Experience, streak, daily goal and achievements are cleared. History and tasks are kept.")
		if err != nil {
			return err
		}
		if !ok {
			logErrf("Wipe cancelled.\n")
			return nil
		}
	}
	fileCfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	a, _, err := openRestored(durationsFromConfig(fileCfg))
	if err != nil {
		return err
	}
	defer a.Close()
	a.orch.Wipe()
	logErrf("Progress reset.\n")
	return nil
}

func confirm(title, description string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run(); err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ok, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}
