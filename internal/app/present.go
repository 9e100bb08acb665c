package app

import (
	"fmt"
	"image/color"

	"spice-theory/internal/domain"
)

// Badge is one percentage pill on the result.
type Badge struct {
	Text     string
	Emphasis bool
}

// Summary is everything a renderer needs to show a resolved result.
type Summary struct {
	Result           domain.Result
	Primary          domain.Category
	Secondary        domain.Category
	Title            string
	Blurb            string
	PrimaryText      string
	SecondaryText    string
	PrimaryHeading   string
	SecondaryHeading string
	Badges           []Badge
	Accent           color.NRGBA
}

// Describe turns a result into display copy using the bank's texts.
func Describe(bank domain.Bank, res domain.Result) Summary {
	primary, ok := bank.Category(res.Primary)
	if !ok {
		primary = domain.Category{Key: res.Primary}
	}
	secondary, ok := bank.Category(res.Secondary)
	if !ok {
		secondary = domain.Category{Key: res.Secondary}
	}

	sum := Summary{
		Result:      res,
		Primary:     primary,
		Secondary:   secondary,
		Blurb:       bank.Blurb(res.Primary, res.Secondary),
		PrimaryText: bank.Descriptions[res.Primary],
		Accent:      primary.Accent(),
	}

	if res.Primary == res.Secondary {
		sum.Title = primary.SoloTitle()
	} else {
		sum.Title = domain.Capitalize(res.Secondary) + " " + domain.Capitalize(res.Primary)
	}

	if res.Pure {
		sum.PrimaryHeading = "Your type (100%)"
		sum.Badges = []Badge{{Text: fmt.Sprintf("%s 100%%", primary.DisplayName()), Emphasis: true}}
		return sum
	}

	sum.SecondaryText = bank.Descriptions[res.Secondary]
	sum.PrimaryHeading = fmt.Sprintf("Primary type (%d%%)", res.PrimaryPercent)
	sum.SecondaryHeading = fmt.Sprintf("Secondary subtype (%d%%)", res.SecondaryPercent)
	sum.Badges = []Badge{
		{Text: fmt.Sprintf("%s %d%%", secondary.DisplayName(), res.SecondaryPercent)},
		{Text: fmt.Sprintf("%s %d%%", primary.DisplayName(), res.PrimaryPercent), Emphasis: true},
	}
	return sum
}
