package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"spice-theory/internal/domain"
)

// ProgressStore keeps best-effort in-progress session snapshots (in-memory, Redis, etc).
type ProgressStore interface {
	Save(ctx context.Context, profile string, state State) error
	Load(ctx context.Context, profile string) (State, error)
	Clear(ctx context.Context, profile string) error
}

// BankRepository loads quiz configuration (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Controller is the single owner of the current session state. Callers
// serialize access; it holds no locks.
type Controller struct {
	engine   *Engine
	progress ProgressStore
	profile  string
	log      *zap.Logger

	state State
}

// NewController wires an engine to an optional progress store.
func NewController(engine *Engine, progress ProgressStore, profile string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if profile == "" {
		profile = "default"
	}
	return &Controller{engine: engine, progress: progress, profile: profile, log: log}
}

// Engine exposes the underlying engine.
func (c *Controller) Engine() *Engine { return c.engine }

// State returns the current session snapshot.
func (c *Controller) State() State { return c.state }

// Start begins a new session, replacing whatever was in progress.
func (c *Controller) Start(ctx context.Context) (State, error) {
	state, err := c.engine.Start()
	if err != nil {
		c.log.Error("start session", zap.Error(err))
		return State{}, err
	}
	c.state = state
	c.log.Info("session started",
		zap.String("session", state.SessionID),
		zap.Int("questions", state.Main.Len()),
	)
	c.persist(ctx)
	return c.state, nil
}

// Resume restores saved progress for the profile, or starts fresh when there
// is none or it no longer fits the bank.
func (c *Controller) Resume(ctx context.Context) (State, error) {
	if c.progress == nil {
		return c.Start(ctx)
	}
	saved, err := c.progress.Load(ctx, c.profile)
	if err != nil {
		if !errors.Is(err, domain.ErrProgressNotFound) {
			c.log.Warn("load progress", zap.String("profile", c.profile), zap.Error(err))
		}
		return c.Start(ctx)
	}
	if !c.fits(saved) {
		c.log.Warn("discarding stale progress", zap.String("session", saved.SessionID))
		return c.Start(ctx)
	}
	c.state = saved
	c.log.Info("session resumed",
		zap.String("session", saved.SessionID),
		zap.Stringer("phase", saved.Phase),
	)
	return c.state, nil
}

// Retake clears saved progress and starts a new session.
func (c *Controller) Retake(ctx context.Context) (State, error) {
	if c.progress != nil {
		if err := c.progress.Clear(ctx, c.profile); err != nil {
			c.log.Warn("clear progress", zap.String("profile", c.profile), zap.Error(err))
		}
	}
	return c.Start(ctx)
}

// Dispatch applies an action to the current state.
func (c *Controller) Dispatch(ctx context.Context, a Action) State {
	prev := c.state
	next := c.engine.Reduce(prev, a)
	c.state = next

	if prev.Phase == PhaseMain && next.Phase != PhaseMain {
		if next.Tie != nil {
			c.log.Info("tie after main round",
				zap.String("session", next.SessionID),
				zap.Strings("tie", next.Tie),
			)
			if next.Phase == PhaseDone {
				c.log.Info("no bonus questions for tie, resolving from main answers",
					zap.String("session", next.SessionID))
			}
		}
	}
	if prev.Phase == PhaseBonus && next.Phase == PhaseMain {
		c.log.Debug("left bonus round", zap.String("session", next.SessionID))
	}
	if prev.Phase != PhaseDone && next.Phase == PhaseDone && next.Result != nil {
		r := next.Result
		c.log.Info("session resolved",
			zap.String("session", next.SessionID),
			zap.String("primary", r.Primary),
			zap.String("secondary", r.Secondary),
			zap.Int("primaryPercent", r.PrimaryPercent),
			zap.Int("secondaryPercent", r.SecondaryPercent),
			zap.Bool("pure", r.Pure),
		)
	}

	c.persist(ctx)
	return next
}

// Summary describes the current result.
func (c *Controller) Summary() (Summary, error) {
	if c.state.Phase != PhaseDone || c.state.Result == nil {
		return Summary{}, domain.ErrNoResult
	}
	return Describe(c.engine.Bank(), *c.state.Result), nil
}

func (c *Controller) persist(ctx context.Context) {
	if c.progress == nil {
		return
	}
	if err := c.progress.Save(ctx, c.profile, c.state); err != nil {
		c.log.Warn("save progress", zap.String("profile", c.profile), zap.Error(err))
	}
}

// fits reports whether a saved state still refers to questions in the bank.
func (c *Controller) fits(s State) bool {
	if s.Main.Len() == 0 || len(s.Main.Answers) != s.Main.Len() {
		return false
	}
	if s.Main.Index < 0 || s.Main.Index >= s.Main.Len() {
		return false
	}
	bank := c.engine.Bank()
	texts := make(map[string]struct{}, len(bank.Questions))
	for _, q := range bank.Questions {
		texts[q.Text] = struct{}{}
	}
	for _, q := range s.Main.Questions {
		if _, ok := texts[q.Text]; !ok {
			return false
		}
	}
	if s.Phase == PhaseBonus && (s.Bonus == nil || s.Bonus.Index < 0 || s.Bonus.Index >= s.Bonus.Len()) {
		return false
	}
	return true
}
