package app

import (
	"math"
	"sort"

	"spice-theory/internal/domain"
)

// orderingNudge is added to one tied category so the sort has a strict winner.
// It only ever touches ordering scores, never displayed counts.
const orderingNudge = 0.0001

// Tally counts answers per category. Every bank category is present, even at zero.
func (e *Engine) Tally(answers ...[]string) domain.Tally {
	t := make(domain.Tally, len(e.bank.Categories))
	for _, c := range e.bank.Categories {
		t[c.Key] = 0
	}
	for _, round := range answers {
		for _, a := range round {
			if a == "" {
				continue
			}
			t[a]++
		}
	}
	return t
}

// EvaluateTie returns the tie set when two or more categories share the
// highest count, or nil when there is a clear leader. A main round with every
// question skipped ties all categories at zero.
func (e *Engine) EvaluateTie(t domain.Tally) []string {
	ordered := e.order(toScores(t))
	if len(ordered) < 2 {
		return nil
	}
	top := ordered[0].score
	if ordered[1].score != top {
		return nil
	}
	if e.policy.Tie == TieTopTwo {
		return []string{ordered[0].key, ordered[1].key}
	}
	var tie []string
	for _, s := range ordered {
		if s.score != top {
			break
		}
		tie = append(tie, s.key)
	}
	return tie
}

// Resolve computes the final result from main and, if present, bonus answers.
func (e *Engine) Resolve(s State) domain.Result {
	var bonus []string
	if s.Bonus != nil {
		bonus = s.Bonus.Answers
	}
	raw := e.Tally(s.Main.Answers, bonus)

	scores := toScores(raw)
	ordered := e.order(scores)
	if len(ordered) > 1 && ordered[0].score == ordered[1].score {
		var tied []string
		for _, o := range ordered {
			if o.score != ordered[0].score {
				break
			}
			tied = append(tied, o.key)
		}
		scores[firstAppearance(tied, s.Main.Answers)] += orderingNudge
		ordered = e.order(scores)
	}

	res := domain.Result{Counts: raw}
	if len(ordered) == 0 {
		return res
	}
	res.Primary = ordered[0].key
	res.Secondary = res.Primary
	if len(ordered) > 1 {
		res.Secondary = ordered[1].key
	}

	total := max(raw.Total(), 1)
	pct := func(n int) int {
		return int(math.Round(float64(n) / float64(total) * 100))
	}

	if e.policy.CollapsePure && raw[res.Secondary] == 0 {
		res.Pure = true
		res.Secondary = res.Primary
		res.PrimaryPercent = 100
		res.SecondaryPercent = 0
		return res
	}
	res.PrimaryPercent = pct(raw[res.Primary])
	// Both halves rounding up (62.5/37.5) would overshoot 100.
	res.SecondaryPercent = min(pct(raw[res.Secondary]), 100-res.PrimaryPercent)
	return res
}

// firstAppearance picks whichever candidate the taker chose earliest in the
// main round, falling back to the first candidate.
func firstAppearance(candidates, answers []string) string {
	in := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		in[c] = struct{}{}
	}
	for _, a := range answers {
		if _, ok := in[a]; ok {
			return a
		}
	}
	return candidates[0]
}

type scored struct {
	key   string
	score float64
}

func toScores(t domain.Tally) map[string]float64 {
	scores := make(map[string]float64, len(t))
	for k, n := range t {
		scores[k] = float64(n)
	}
	return scores
}

// order sorts by score descending; equal scores keep bank declaration order.
func (e *Engine) order(scores map[string]float64) []scored {
	out := make([]scored, 0, len(scores))
	seen := make(map[string]struct{}, len(scores))
	for _, c := range e.bank.Categories {
		if v, ok := scores[c.Key]; ok {
			out = append(out, scored{key: c.Key, score: v})
			seen[c.Key] = struct{}{}
		}
	}
	for k, v := range scores {
		if _, ok := seen[k]; !ok {
			out = append(out, scored{key: k, score: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}
