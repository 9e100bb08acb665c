package app_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"spice-theory/internal/app"
	"spice-theory/internal/domain"
)

func TestDescribeMixedResult(t *testing.T) {
	bank := testBank(1, 0)
	sum := app.Describe(bank, domain.Result{Primary: "posh", Secondary: "baby", PrimaryPercent: 63, SecondaryPercent: 37})

	if sum.Title != "Baby Posh" {
		t.Fatalf("title = %q", sum.Title)
	}
	if sum.Blurb != "Posh with a sweet streak." {
		t.Fatalf("blurb = %q", sum.Blurb)
	}
	want := []app.Badge{{Text: "Baby Spice 37%"}, {Text: "Posh Spice 63%", Emphasis: true}}
	if diff := cmp.Diff(want, sum.Badges); diff != "" {
		t.Fatalf("badges (-want +got):\n%s", diff)
	}
	if sum.PrimaryHeading != "Primary type (63%)" || sum.SecondaryHeading != "Secondary subtype (37%)" {
		t.Fatalf("headings = %q / %q", sum.PrimaryHeading, sum.SecondaryHeading)
	}
	if sum.PrimaryText != "posh description" || sum.SecondaryText != "baby description" {
		t.Fatalf("descriptions not taken from bank: %q / %q", sum.PrimaryText, sum.SecondaryText)
	}
	if sum.Accent != (domain.Category{Key: "posh"}).Accent() {
		t.Fatalf("accent should follow the primary, got %v", sum.Accent)
	}
}

func TestDescribePureResult(t *testing.T) {
	bank := testBank(1, 0)
	sum := app.Describe(bank, domain.Result{Primary: "ginger", Secondary: "ginger", PrimaryPercent: 100, Pure: true})

	if sum.Title != "Full Ginger" {
		t.Fatalf("title = %q", sum.Title)
	}
	if len(sum.Badges) != 1 || sum.Badges[0].Text != "Ginger Spice 100%" || !sum.Badges[0].Emphasis {
		t.Fatalf("badges = %+v", sum.Badges)
	}
	if sum.PrimaryHeading != "Your type (100%)" || sum.SecondaryText != "" {
		t.Fatalf("pure result should have a single section, got %+v", sum)
	}
	if sum.Blurb != "" {
		t.Fatalf("expected no blurb for ginger:ginger, got %q", sum.Blurb)
	}
}

func TestDescribeUsesCustomPureTitle(t *testing.T) {
	bank := testBank(1, 0)
	bank.Categories[4].PureTitle = "Scary Through and Through"
	sum := app.Describe(bank, domain.Result{Primary: "scary", Secondary: "scary", PrimaryPercent: 100, Pure: true})
	if sum.Title != "Scary Through and Through" {
		t.Fatalf("title = %q", sum.Title)
	}
}
