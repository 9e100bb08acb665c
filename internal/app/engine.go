package app

import (
	"github.com/google/uuid"

	"spice-theory/internal/domain"
)

// TiePolicy decides which categories make up the tie set after the main round.
type TiePolicy int

const (
	// TieMax puts every category sharing the maximum count in the tie set.
	TieMax TiePolicy = iota
	// TieTopTwo only looks at the two highest-ranked categories.
	TieTopTwo
)

// ParseTiePolicy maps a config string onto a TiePolicy.
func ParseTiePolicy(s string) TiePolicy {
	if s == "top_two" {
		return TieTopTwo
	}
	return TieMax
}

// Policy holds the tunable scoring rules.
type Policy struct {
	Tie TiePolicy
	// CollapsePure folds secondary into primary when only one category scored.
	CollapsePure bool
	BonusMin     int
	BonusMax     int
}

// DefaultPolicy returns the rules used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{Tie: TieMax, CollapsePure: true, BonusMin: 3, BonusMax: 5}
}

// Action is a navigation or answer event applied by Reduce.
type Action interface {
	isAction()
}

// Select records or overwrites the answer for a question in the active round.
type Select struct {
	Index    int
	Category string
}

// Advance moves forward; it needs an answer on the current question.
type Advance struct{}

// Retreat moves back one question.
type Retreat struct{}

// Skip moves forward leaving the current question unanswered. Main round only.
type Skip struct{}

func (Select) isAction()  {}
func (Advance) isAction() {}
func (Retreat) isAction() {}
func (Skip) isAction()    {}

// Engine owns question order, answer state and result computation for one bank.
type Engine struct {
	bank   domain.Bank
	rnd    Rand
	policy Policy
	newID  func() string
}

// NewEngine builds an engine over bank. The bank is validated on Start.
func NewEngine(bank domain.Bank, rnd Rand, policy Policy) *Engine {
	if rnd == nil {
		rnd = NewRand(0)
	}
	if policy.BonusMin <= 0 {
		policy.BonusMin = 3
	}
	if policy.BonusMax < policy.BonusMin {
		policy.BonusMax = policy.BonusMin
	}
	return &Engine{bank: bank, rnd: rnd, policy: policy, newID: uuid.NewString}
}

// Bank returns the configuration the engine was built with.
func (e *Engine) Bank() domain.Bank { return e.bank }

// Policy returns the active scoring rules.
func (e *Engine) Policy() Policy { return e.policy }

// Start draws a fresh permutation of the main pool and resets all session state.
func (e *Engine) Start() (State, error) {
	if err := e.bank.Validate(); err != nil {
		return State{}, err
	}
	questions := append([]domain.Question(nil), e.bank.Questions...)
	Shuffle(e.rnd, questions)
	return State{
		SessionID: e.newID(),
		Phase:     PhaseMain,
		Main:      newRound(questions),
	}, nil
}

// Reduce applies a to s and returns the next state. Actions outside their valid
// range leave the state unchanged.
func (e *Engine) Reduce(s State, a Action) State {
	if s.Main.Len() == 0 {
		return s
	}
	switch s.Phase {
	case PhaseMain:
		return e.reduceMain(s, a)
	case PhaseBonus:
		if s.Bonus == nil {
			return s
		}
		return e.reduceBonus(s, a)
	default:
		return s
	}
}

func (e *Engine) reduceMain(s State, a Action) State {
	switch act := a.(type) {
	case Select:
		r, ok := selectIn(s.Main, act)
		if !ok {
			return s
		}
		next := s.clone()
		next.Main = r
		return next
	case Advance:
		if s.Main.Answer(s.Main.Index) == "" {
			return s
		}
		return e.forward(s)
	case Skip:
		return e.forward(s)
	case Retreat:
		if s.Main.Index == 0 {
			return s
		}
		next := s.clone()
		next.Main.Index--
		return next
	}
	return s
}

func (e *Engine) forward(s State) State {
	if !s.Main.last() {
		next := s.clone()
		next.Main.Index++
		next.Main.Reached = max(next.Main.Reached, next.Main.Index)
		return next
	}
	if tie := e.EvaluateTie(e.Tally(s.Main.Answers)); tie != nil {
		return e.StartBonus(s, tie)
	}
	return e.finish(s)
}

func (e *Engine) reduceBonus(s State, a Action) State {
	switch act := a.(type) {
	case Select:
		r, ok := selectIn(*s.Bonus, act)
		if !ok {
			return s
		}
		next := s.clone()
		next.Bonus = &r
		return next
	case Advance:
		b := *s.Bonus
		if b.Answer(b.Index) == "" {
			return s
		}
		if b.last() {
			return e.finish(s)
		}
		next := s.clone()
		next.Bonus.Index++
		next.Bonus.Reached = max(next.Bonus.Reached, next.Bonus.Index)
		return next
	case Retreat:
		next := s.clone()
		if next.Bonus.Index > 0 {
			next.Bonus.Index--
			return next
		}
		next.Bonus = nil
		next.Tie = nil
		next.Phase = PhaseMain
		return next
	}
	return s
}

func selectIn(r Round, act Select) (Round, bool) {
	if act.Index < 0 || act.Index >= r.Len() || act.Index > r.Reached {
		return r, false
	}
	if !r.Questions[act.Index].HasCategory(act.Category) {
		return r, false
	}
	r = r.clone()
	r.Answers[act.Index] = act.Category
	return r, true
}

// StartBonus restricts the bonus bank to the tied categories and moves s into
// the bonus round. When no bonus question survives filtering the session is
// resolved straight from the main answers.
func (e *Engine) StartBonus(s State, tie []string) State {
	next := s.clone()
	next.Tie = append([]string(nil), tie...)

	pool := e.BonusPool(tie)
	if len(pool) == 0 {
		next.Bonus = nil
		return e.finish(next)
	}

	Shuffle(e.rnd, pool)
	size := e.policy.BonusMin + e.rnd.Intn(e.policy.BonusMax-e.policy.BonusMin+1)
	size = min(size, len(pool))

	bonus := newRound(pool[:size])
	next.Bonus = &bonus
	next.Phase = PhaseBonus
	return next
}

// BonusPool filters every bonus question down to the tied categories and drops
// questions left with fewer than two options.
func (e *Engine) BonusPool(tie []string) []domain.Question {
	allowed := make(map[string]struct{}, len(tie))
	for _, k := range tie {
		allowed[k] = struct{}{}
	}
	var pool []domain.Question
	for _, q := range e.bank.Bonus {
		var opts []domain.Option
		for _, opt := range q.Options {
			if _, ok := allowed[opt.Category]; ok {
				opts = append(opts, opt)
			}
		}
		if len(opts) >= 2 {
			pool = append(pool, domain.Question{Text: q.Text, Options: opts})
		}
	}
	return pool
}

func (e *Engine) finish(s State) State {
	next := s.clone()
	result := e.Resolve(next)
	next.Result = &result
	next.Phase = PhaseDone
	return next
}
