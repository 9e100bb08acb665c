package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spice-theory/internal/app"
	"spice-theory/internal/config"
	"spice-theory/internal/logger"
	"spice-theory/internal/tui"
)

const defaultPlayLog = "spice-theory.log"

// NewPlayCmd runs the interactive quiz in the terminal.
func NewPlayCmd(configPath, profile *string) *cobra.Command {
	var (
		resume bool
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *profile, resume, seed)
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", false, "continue saved progress for the profile")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	return cmd
}

func runPlay(ctx context.Context, configPath, profile string, resume bool, seed int64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The terminal belongs to the TUI.
	if cfg.Log.Path == "" && cfg.Log.Format != "nop" {
		cfg.Log.Path = defaultPlayLog
	}
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	d, err := newDeps(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quiz data: %v\n", err)
		return err
	}
	defer d.Close()

	bank, err := d.banks.GetBank(ctx, cfg.Bank.ID)
	if err != nil {
		log.Error("load bank", zap.String("bank", cfg.Bank.ID), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error loading quiz data: %v\n", err)
		return err
	}

	engine := app.NewEngine(bank, app.NewRand(seed), policyFrom(cfg))
	ctrl := app.NewController(engine, d.progress, profile, log)
	start := ctrl.Start
	if resume {
		start = ctrl.Resume
	}
	if _, err := start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quiz data: %v\n", err)
		return err
	}

	renderer, err := newCardRenderer(cfg, log)
	if err != nil {
		return err
	}

	model := tui.New(ctx, ctrl, tui.Options{
		Renderer: renderer,
		OutDir:   cfg.Card.OutDir,
		Rand:     app.NewRand(seed),
		Log:      log,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run quiz: %w", err)
	}
	return nil
}
