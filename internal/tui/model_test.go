package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"spice-theory/internal/app"
	"spice-theory/internal/card"
	"spice-theory/internal/domain"
	"spice-theory/internal/infra/memory"
)

func testBank() domain.Bank {
	opts := []domain.Option{
		{Label: "Champagne", Category: "posh"},
		{Label: "Milkshake", Category: "baby"},
		{Label: "Energy drink", Category: "sporty"},
	}
	return domain.Bank{
		Categories: []domain.Category{{Key: "posh", Name: "Posh"}, {Key: "baby", Name: "Baby"}, {Key: "sporty", Name: "Sporty"}},
		Questions: []domain.Question{
			{Text: "First", Options: opts},
			{Text: "Second", Options: opts},
			{Text: "Third", Options: opts},
		},
		Descriptions: map[string]string{"posh": "Polished."},
	}
}

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) Render(_ context.Context, req card.Request) (card.Output, error) {
	f.calls++
	res := req.Summary.Result
	return card.Output{SessionID: req.SessionID, PNG: []byte("png"), Filename: card.Filename(res.Primary, res.Secondary)}, nil
}

func newModel(t *testing.T, r CardRenderer, outDir string) (Model, *app.Controller, *memory.ProgressStore) {
	t.Helper()
	store := memory.NewProgressStore()
	engine := app.NewEngine(testBank(), app.NewRand(7), app.DefaultPolicy())
	ctrl := app.NewController(engine, store, "tester", nil)
	if _, err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	m := New(context.Background(), ctrl, Options{Renderer: r, OutDir: outDir, Rand: app.NewRand(3)})
	return m, ctrl, store
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// pick presses the number key showing category in the current option order.
func pick(t *testing.T, m Model, category string) Model {
	t.Helper()
	for i, opt := range m.Presented() {
		if opt.Category == category {
			m, _ = press(t, m, string(rune('1'+i)))
			return m
		}
	}
	t.Fatalf("category %s not presented", category)
	return m
}

func TestKeysDriveTheController(t *testing.T) {
	m, ctrl, _ := newModel(t, nil, "")

	m, _ = press(t, m, "enter")
	if ctrl.State().Main.Index != 0 {
		t.Fatalf("advance without an answer should not move")
	}

	m = pick(t, m, "baby")
	if got := ctrl.State().Main.Answers[0]; got != "baby" {
		t.Fatalf("expected baby recorded, got %q", got)
	}
	if !strings.Contains(m.View(), "> ") {
		t.Fatalf("selected option should be marked:\n%s", m.View())
	}

	m, _ = press(t, m, "n")
	m, _ = press(t, m, "b")
	if ctrl.State().Main.Index != 0 {
		t.Fatalf("back should return to the first question")
	}
	m = pick(t, m, "posh")
	if got := ctrl.State().Main.Answers[0]; got != "posh" {
		t.Fatalf("answer should be overwritten, got %q", got)
	}

	m, _ = press(t, m, "s")
	m, _ = press(t, m, "s")
	if ctrl.State().Main.Index != 2 {
		t.Fatalf("skip should move forward, at %d", ctrl.State().Main.Index)
	}
	if !strings.Contains(m.View(), "Question 3 of 3") {
		t.Fatalf("progress label missing:\n%s", m.View())
	}

	m = pick(t, m, "posh")
	m, _ = press(t, m, "enter")
	if ctrl.State().Phase != app.PhaseDone {
		t.Fatalf("expected done, got %s", ctrl.State().Phase)
	}
	view := m.View()
	if !strings.Contains(view, "True Posh") || !strings.Contains(view, "Your type (100%)") {
		t.Fatalf("result view missing pure summary:\n%s", view)
	}

	if _, cmd := press(t, m, "q"); cmd == nil {
		t.Fatalf("q should quit")
	}
}

func TestOptionOrderIsStableWhileShown(t *testing.T) {
	m, _, _ := newModel(t, nil, "")
	before := m.Presented()
	m = pick(t, m, "sporty")
	after := m.Presented()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("options reshuffled on select: %v then %v", before, after)
		}
	}
	if len(after) != 3 {
		t.Fatalf("expected 3 options, got %d", len(after))
	}
}

func finish(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 3; i++ {
		m = pick(t, m, "posh")
		m, _ = press(t, m, "enter")
	}
	return m
}

func TestSaveCardAndDropStaleRenders(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	m, ctrl, store := newModel(t, r, dir)

	if _, cmd := press(t, m, "p"); cmd != nil {
		t.Fatalf("saving before a result should do nothing")
	}

	m = finish(t, m)
	m, cmd := press(t, m, "p")
	if cmd == nil {
		t.Fatalf("expected a render command")
	}
	msg := cmd()

	stale := renderedMsg{session: "someone-else", path: "/nowhere"}
	next, _ := m.Update(stale)
	m = next.(Model)
	if m.Status() != "Rendering card..." {
		t.Fatalf("stale render should be ignored, status %q", m.Status())
	}

	next, _ = m.Update(msg)
	m = next.(Model)
	want := filepath.Join(dir, "spice-posh-posh.png")
	if m.Status() != "Saved "+want {
		t.Fatalf("unexpected status %q", m.Status())
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("card not written: %v", err)
	}

	first := ctrl.State().SessionID
	m, _ = press(t, m, "r")
	if ctrl.State().SessionID == first || ctrl.State().Phase != app.PhaseMain {
		t.Fatalf("retake should start a fresh session")
	}
	if m.Status() != "" {
		t.Fatalf("retake should clear the status")
	}
	saved, err := store.Load(context.Background(), "tester")
	if err != nil || saved.SessionID != ctrl.State().SessionID {
		t.Fatalf("progress should track the new session: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("expected one render, got %d", r.calls)
	}
}
