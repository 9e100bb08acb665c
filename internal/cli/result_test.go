package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"spice-theory/internal/config"
	"spice-theory/internal/domain"
)

func writeBank(t *testing.T, dir string) {
	t.Helper()
	both := []domain.Option{{Label: "Champagne", Category: "posh"}, {Label: "Milkshake", Category: "baby"}}
	bank := domain.Bank{
		Categories:   []domain.Category{{Key: "posh", Name: "Posh"}, {Key: "baby", Name: "Baby"}},
		ResultBlurbs: map[string]string{"posh:baby": "Refined but sweet."},
		Descriptions: map[string]string{"posh": "Polished.", "baby": "Sweet."},
	}
	for _, text := range []string{"One", "Two", "Three", "Four"} {
		bank.Questions = append(bank.Questions, domain.Question{Text: text, Options: both})
	}
	for _, text := range []string{"Bonus one", "Bonus two", "Bonus three"} {
		bank.Bonus = append(bank.Bonus, domain.Question{Text: text, Options: both})
	}
	data, err := json.Marshal(bank)
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "archetypes.json"), data, 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	writeBank(t, dir)
	cfg := config.Default()
	cfg.Bank.Location = dir
	cfg.Card.OutDir = filepath.Join(dir, "out")
	cfg.Card.AssetRoot = dir
	return cfg
}

func TestResultResolvesTieAndWritesCard(t *testing.T) {
	cfg := testConfig(t)
	var out, errOut bytes.Buffer
	err := runResult(context.Background(), &out, &errOut, cfg, zap.NewNop(), resultArgs{
		answers: []string{"posh", "baby", "posh", "baby"},
		bonus:   []string{"posh", "posh", "posh"},
		seed:    1,
		card:    true,
	})
	if err != nil {
		t.Fatalf("result: %v\n%s", err, errOut.String())
	}
	text := out.String()
	for _, want := range []string{"Baby Posh", "[Baby 29%] [Posh 71%]", "Refined but sweet.", "Secondary subtype (29%): Baby"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Card.OutDir, "spice-posh-baby.png")); err != nil {
		t.Fatalf("card not written: %v", err)
	}
}

func TestResultRejectsBadAnswers(t *testing.T) {
	cfg := testConfig(t)
	cases := map[string]resultArgs{
		"unknown category": {answers: []string{"posh", "scary", "posh", "posh"}},
		"too few answers":  {answers: []string{"posh", "posh"}},
		"missing bonus":    {answers: []string{"posh", "baby", "posh", "baby"}, bonus: []string{"posh"}},
		"unexpected bonus": {answers: []string{"posh", "posh", "posh", "baby"}, bonus: []string{"posh"}},
	}
	for name, args := range cases {
		var out, errOut bytes.Buffer
		if err := runResult(context.Background(), &out, &errOut, cfg, zap.NewNop(), args); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestResultNamesUnknownCategory(t *testing.T) {
	cfg := testConfig(t)
	var out, errOut bytes.Buffer
	err := runResult(context.Background(), &out, &errOut, cfg, zap.NewNop(), resultArgs{
		answers: []string{"posh", "scary", "posh", "posh"},
	})
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if !strings.Contains(err.Error(), "want one of posh, baby") {
		t.Fatalf("error should list the bank categories: %v", err)
	}
}

func TestResultReportsLoadFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bank.ID = "missing.json"
	var out, errOut bytes.Buffer
	if err := runResult(context.Background(), &out, &errOut, cfg, zap.NewNop(), resultArgs{answers: []string{"posh"}}); err == nil {
		t.Fatalf("expected load failure")
	}
	if !strings.HasPrefix(errOut.String(), "Error loading quiz data: ") {
		t.Fatalf("unexpected error output %q", errOut.String())
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" posh, -,,baby ")
	if strings.Join(got, "|") != "posh|-|baby" {
		t.Fatalf("got %v", got)
	}
	if splitList("") != nil {
		t.Fatalf("empty input should give nil")
	}
}
