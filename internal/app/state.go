package app

import (
	"fmt"

	"spice-theory/internal/domain"
)

// Phase is the stage a session is in.
type Phase int

const (
	PhaseMain Phase = iota
	PhaseBonus
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseMain:
		return "main"
	case PhaseBonus:
		return "bonus"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Round is an ordered run of questions with one editable answer slot each.
// An empty answer means the question is unanswered or skipped.
type Round struct {
	Questions []domain.Question `json:"questions"`
	Answers   []string          `json:"answers"`
	Index     int               `json:"index"`
	// Reached is the furthest index visited; answers up to it stay editable.
	Reached int `json:"reached"`
}

func newRound(questions []domain.Question) Round {
	return Round{
		Questions: questions,
		Answers:   make([]string, len(questions)),
	}
}

// Len returns the number of questions in the round.
func (r Round) Len() int { return len(r.Questions) }

// Current returns the question at Index.
func (r Round) Current() domain.Question {
	if r.Index < 0 || r.Index >= len(r.Questions) {
		return domain.Question{}
	}
	return r.Questions[r.Index]
}

// Answer returns the recorded answer at i, or "".
func (r Round) Answer(i int) string {
	if i < 0 || i >= len(r.Answers) {
		return ""
	}
	return r.Answers[i]
}

func (r Round) last() bool { return r.Index >= len(r.Questions)-1 }

// clone copies the answer slice; questions are immutable and shared.
func (r Round) clone() Round {
	answers := make([]string, len(r.Answers))
	copy(answers, r.Answers)
	r.Answers = answers
	return r
}

// State is a full snapshot of a quiz session. Reducers return new values and
// never modify the State they were given.
type State struct {
	SessionID string         `json:"sessionId"`
	Phase     Phase          `json:"phase"`
	Main      Round          `json:"main"`
	Bonus     *Round         `json:"bonus,omitempty"`
	Tie       []string       `json:"tie,omitempty"`
	Result    *domain.Result `json:"result,omitempty"`
}

// Active returns the round the next action applies to.
func (s State) Active() Round {
	if s.Phase == PhaseBonus && s.Bonus != nil {
		return *s.Bonus
	}
	return s.Main
}

func (s State) clone() State {
	s.Main = s.Main.clone()
	if s.Bonus != nil {
		b := s.Bonus.clone()
		s.Bonus = &b
	}
	if s.Tie != nil {
		s.Tie = append([]string(nil), s.Tie...)
	}
	return s
}

// Progress describes how far through the session the taker is.
type Progress struct {
	Current int
	Total   int
	Percent float64
	Label   string
}

// Progress reports position across the main and any bonus round.
func (s State) Progress() Progress {
	total := s.Main.Len()
	if s.Phase == PhaseBonus && s.Bonus != nil {
		total += s.Bonus.Len()
	}
	if s.Phase == PhaseDone {
		return Progress{Current: total, Total: total, Percent: 100, Label: "Complete"}
	}

	completed := s.Main.Index
	if s.Phase == PhaseBonus && s.Bonus != nil {
		completed = s.Main.Len() + s.Bonus.Index
	}
	denom := max(total, 1)
	current := min(completed+1, denom)
	pct := float64(completed) / float64(denom) * 100
	pct = max(0, min(100, pct))
	return Progress{
		Current: current,
		Total:   total,
		Percent: pct,
		Label:   fmt.Sprintf("Question %d of %d", current, total),
	}
}
