package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spice-theory/internal/config"
	"spice-theory/internal/domain"
	pgloader "spice-theory/internal/infra/postgres"
	"spice-theory/internal/infra/source"
)

// NewSeedCmd validates bank files and upserts them into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <id> <file> [<id> <file>...]",
		Short: "Validate bank files and store them in Postgres",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected <id> <file> pairs, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runSeed(cmd.Context(), cfg, log, args)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config, log *zap.Logger, args []string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	files := source.NewFile("")
	banks := make([]domain.Bank, len(args)/2)
	g, gctx := errgroup.WithContext(ctx)
	for i := range banks {
		path := args[2*i+1]
		g.Go(func() error {
			bank, err := files.LoadBank(gctx, path)
			if err != nil {
				return err
			}
			if err := bank.Validate(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			banks[i] = bank
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store := pgloader.NewBankLoader(pool)
	for i, bank := range banks {
		id := args[2*i]
		if err := store.SaveBank(ctx, id, bank); err != nil {
			return err
		}
		log.Info("bank seeded",
			zap.String("bank", id),
			zap.Int("questions", len(bank.Questions)),
			zap.Int("bonus", len(bank.Bonus)),
		)
	}
	return nil
}
