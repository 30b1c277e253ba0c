// Package main provides the fote CLI entry point: the interactive operator
// terminal plus one-shot helpers for scripting it.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/m0n0x41d/fote-terminal/atlas"
	"github.com/m0n0x41d/fote-terminal/db"
	"github.com/m0n0x41d/fote-terminal/ecc"
	"github.com/m0n0x41d/fote-terminal/internal/config"
	"github.com/m0n0x41d/fote-terminal/internal/debrief"
	"github.com/m0n0x41d/fote-terminal/internal/logging"
	"github.com/m0n0x41d/fote-terminal/internal/terminal"
	"github.com/m0n0x41d/fote-terminal/internal/tui"
	"github.com/m0n0x41d/fote-terminal/internal/world"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	plain       bool
	journalPath string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fote",
	Short: "Flower of the Eden operator terminal",
	Long: `fote is the Flower of the Eden (FotE) operator terminal.

Navigate the station filesystem, raise your clearance and decide what the
satellite transmits. Run without arguments for the interactive terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if journalPath != "" {
			cfg.Journal.Path = journalPath
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

var execCmd = &cobra.Command{
	Use:   "exec [command...]",
	Short: "Run terminal commands and print the transcript",
	Long: `Runs each argument as one terminal command, or every stdin line when no
arguments are given, in a single session.

Example:
  fote exec "calibrate S:2,3 B:3" "cd /.eden/flower" "cat countdown.gen"`,
	RunE: runExec,
}

var repairCmd = &cobra.Command{
	Use:   "repair [file]",
	Short: "Recover the unknown letter of a checksummed message",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRepair,
}

var composeCmd = &cobra.Command{
	Use:   "compose <phrase...>",
	Short: "Render a phrase in glyph art",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompose,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	Long: `Writes the effective configuration (defaults plus flag overrides) to the
path given by --config, so it can be edited.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	showJournal bool
	force       bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Line-oriented terminal without the full-screen UI")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Journal database (overrides journal.path)")

	execCmd.Flags().BoolVar(&showJournal, "show-journal", false, "Print the session journal after the transcript")

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(composeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openTerminal builds a fresh session over the embedded world, journalled
// into the configured store.
func openTerminal() (*terminal.Terminal, *db.Store, error) {
	root, err := world.Build()
	if err != nil {
		return nil, nil, err
	}
	store, err := db.NewStore(cfg.Journal.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal: %w", err)
	}
	session := terminal.NewSession(root)
	logger.Info("session started",
		zap.String("session", session.ID),
		zap.String("journal", cfg.Journal.Path))

	term := terminal.New(session, cfg,
		terminal.WithJournal(store),
		terminal.WithLogger(logger))
	return term, store, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	term, store, err := openTerminal()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if plain {
		return plainLoop(ctx, term, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	p := tea.NewProgram(tui.New(ctx, term), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// plainLoop is the pipe-friendly terminal: prompt, read a line, reply.
func plainLoop(ctx context.Context, term *terminal.Terminal, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, `FotE Terminal – type "help" to begin.`)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s ", term.Prompt())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "exit" {
			return nil
		}
		writeReply(out, term, line, term.Exec(ctx, line))
	}
}

func writeReply(out io.Writer, term *terminal.Terminal, line, reply string) {
	if reply != "" {
		fmt.Fprintln(out, reply)
	}
	if status := term.Session().StatusLine(); status != "" && strings.TrimSpace(line) != "" {
		fmt.Fprintln(out, status)
	}
}

func runExec(cmd *cobra.Command, args []string) error {
	term, store, err := openTerminal()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	lines := args
	if len(lines) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read commands: %w", err)
		}
	}

	for _, line := range lines {
		fmt.Fprintf(out, "%s %s\n", term.Prompt(), line)
		writeReply(out, term, line, term.Exec(ctx, line))
	}

	if !showJournal {
		return nil
	}
	entries, err := store.Recent(ctx, term.Session().ID, len(lines))
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	fmt.Fprintln(out, "--- journal ---")
	for _, e := range entries {
		status := "ok"
		if e.Failed {
			status = "failed"
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", e.Seq, status, e.Cwd, e.Input)
	}
	trail, err := store.AuditTrail(ctx, term.Session().ID)
	if err != nil {
		return fmt.Errorf("failed to read audit trail: %w", err)
	}
	for _, a := range trail {
		fmt.Fprintf(out, "audit\t%s\t%s\t%s\t%s\n", a.Operation, a.Actor, a.Target, a.Details)
	}

	report, err := debrief.New(store.GetRawDB()).Build(ctx, term.Session().ID)
	if err != nil {
		return fmt.Errorf("failed to build debrief: %w", err)
	}
	fmt.Fprintln(out, "--- debrief ---")
	fmt.Fprintln(out, report)
	return nil
}

func runRepair(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	res, err := ecc.Repair(string(data))
	if err != nil {
		return err
	}
	logger.Debug("message repaired", zap.Int("ascii", res.ASCII))
	fmt.Fprintf(cmd.OutOrStdout(), "Repaired: %s\nRecovered=%c (ASCII %d)\n", res.Repaired, res.Recovered, res.ASCII)
	return nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	opts := atlas.Options{
		GlyphsPerRow: cfg.Transmit.GlyphsPerRow,
		ColSpacing:   cfg.Transmit.ColSpacing,
		RowSpacing:   cfg.Transmit.RowSpacing,
	}
	fmt.Fprint(cmd.OutOrStdout(), atlas.ComposeFile(strings.Join(args, " "), atlas.Default(), opts))
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", configPath))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
