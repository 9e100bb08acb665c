package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spice-theory/internal/app"
	"spice-theory/internal/card"
	"spice-theory/internal/config"
	"spice-theory/internal/domain"
)

// NewResultCmd answers a quiz non-interactively and writes the result card.
func NewResultCmd(configPath *string) *cobra.Command {
	var (
		answers string
		bonus   string
		seed    int64
		out     string
		noCard  bool
	)
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Score a list of answers and write the result card",
		Example: "  spice-theory result --answers posh,baby,-,posh --seed 7\n" +
			"  spice-theory result --answers posh,baby --bonus posh,posh,baby",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Card.OutDir = out
			}
			return runResult(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, log, resultArgs{
				answers: splitList(answers),
				bonus:   splitList(bonus),
				seed:    seed,
				card:    !noCard,
			})
		},
	}
	cmd.Flags().StringVar(&answers, "answers", "", "comma separated category keys in presented order; - skips")
	cmd.Flags().StringVar(&bonus, "bonus", "", "comma separated category keys for the tie-breaker round")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for question order and bonus selection")
	cmd.Flags().StringVar(&out, "out", "", "directory for the PNG card (defaults to card.out_dir)")
	cmd.Flags().BoolVar(&noCard, "no-card", false, "print the result without writing a card")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

type resultArgs struct {
	answers []string
	bonus   []string
	seed    int64
	card    bool
}

func runResult(ctx context.Context, w, errW io.Writer, cfg config.Config, log *zap.Logger, args resultArgs) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := newDeps(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(errW, "Error loading quiz data: %v\n", err)
		return err
	}
	defer d.Close()

	bank, err := d.banks.GetBank(ctx, cfg.Bank.ID)
	if err != nil {
		fmt.Fprintf(errW, "Error loading quiz data: %v\n", err)
		return err
	}

	engine := app.NewEngine(bank, app.NewRand(args.seed), policyFrom(cfg))
	ctrl := app.NewController(engine, nil, "", log)
	if _, err := ctrl.Start(ctx); err != nil {
		return err
	}
	if err := playAnswers(ctx, ctrl, args.answers, args.bonus); err != nil {
		return err
	}

	sum, err := ctrl.Summary()
	if err != nil {
		return err
	}
	printSummary(w, sum)

	if !args.card {
		return nil
	}
	renderer, err := newCardRenderer(cfg, log)
	if err != nil {
		return err
	}
	img, err := renderer.Render(ctx, card.Request{SessionID: ctrl.State().SessionID, Summary: sum})
	if err != nil {
		return err
	}
	path, err := card.Save(cfg.Card.OutDir, img)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nCard: %s (%dx%d)\n", path, img.Width, img.Height)
	for _, ref := range img.Missing {
		fmt.Fprintf(w, "  image unavailable: %s\n", ref)
	}
	return nil
}

// playAnswers feeds answers to the main round and then to any bonus round.
func playAnswers(ctx context.Context, ctrl *app.Controller, main, bonus []string) error {
	for i, key := range main {
		s := ctrl.State()
		if s.Phase != app.PhaseMain {
			return fmt.Errorf("answer %d: main round already finished", i+1)
		}
		if key == "-" {
			ctrl.Dispatch(ctx, app.Skip{})
			continue
		}
		if err := answer(ctx, ctrl, i+1, key); err != nil {
			return err
		}
	}
	if s := ctrl.State(); s.Phase == app.PhaseMain {
		return fmt.Errorf("got %d answers for %d questions", len(main), s.Main.Len())
	}

	for i, key := range bonus {
		if ctrl.State().Phase != app.PhaseBonus {
			return fmt.Errorf("bonus answer %d: no tie-breaker round in progress", i+1)
		}
		if err := answer(ctx, ctrl, i+1, key); err != nil {
			return fmt.Errorf("bonus %w", err)
		}
	}
	if s := ctrl.State(); s.Phase == app.PhaseBonus {
		return fmt.Errorf("tie between %s needs %d bonus answers, got %d",
			strings.Join(s.Tie, ", "), s.Bonus.Len(), len(bonus))
	}
	return nil
}

func answer(ctx context.Context, ctrl *app.Controller, n int, key string) error {
	round := ctrl.State().Active()
	s := ctrl.Dispatch(ctx, app.Select{Index: round.Index, Category: key})
	if s.Active().Answer(round.Index) != key {
		bank := ctrl.Engine().Bank()
		if _, ok := bank.Category(key); !ok {
			return fmt.Errorf("answer %d: %q, want one of %s: %w", n, key, strings.Join(bank.Keys(), ", "), domain.ErrUnknownCategory)
		}
		return fmt.Errorf("answer %d: %q is not an option for %q", n, key, round.Current().Text)
	}
	ctrl.Dispatch(ctx, app.Advance{})
	return nil
}

func printSummary(w io.Writer, sum app.Summary) {
	fmt.Fprintln(w, sum.Title)
	badges := make([]string, 0, len(sum.Badges))
	for _, b := range sum.Badges {
		badges = append(badges, b.Text)
	}
	fmt.Fprintf(w, "[%s]\n", strings.Join(badges, "] ["))
	if sum.Blurb != "" {
		fmt.Fprintf(w, "\n%s\n", sum.Blurb)
	}
	fmt.Fprintf(w, "\n%s: %s\n%s\n", sum.PrimaryHeading, sum.Primary.DisplayName(), sum.PrimaryText)
	if !sum.Result.Pure {
		fmt.Fprintf(w, "\n%s: %s\n%s\n", sum.SecondaryHeading, sum.Secondary.DisplayName(), sum.SecondaryText)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
