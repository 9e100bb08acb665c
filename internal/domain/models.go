package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Category is one personality archetype ("spice") a quiz taker can land on.
type Category struct {
	Key        string `json:"key" yaml:"key"`
	Name       string `json:"name" yaml:"name"`
	Image      string `json:"image" yaml:"image"`
	ColorClass string `json:"colorClass,omitempty" yaml:"colorClass,omitempty"`
	Colour     string `json:"colour,omitempty" yaml:"colour,omitempty"`
	PureTitle  string `json:"pureTitle,omitempty" yaml:"pureTitle,omitempty"`
}

// Option is a single answer; picking it scores one point for Category.
type Option struct {
	Label    string `json:"label" yaml:"label"`
	Category string `json:"spice" yaml:"spice"`
}

// Question models a multiple-choice prompt whose options map onto categories.
type Question struct {
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// HasCategory reports whether any option of q scores for key.
func (q Question) HasCategory(key string) bool {
	for _, opt := range q.Options {
		if opt.Category == key {
			return true
		}
	}
	return false
}

// Bank is the static quiz configuration loaded once at startup.
type Bank struct {
	Categories   []Category        `json:"spices" yaml:"spices"`
	Questions    []Question        `json:"questions" yaml:"questions"`
	Bonus        []Question        `json:"bonus" yaml:"bonus"`
	ResultBlurbs map[string]string `json:"resultBlurbs" yaml:"resultBlurbs"`
	Descriptions map[string]string `json:"descriptions" yaml:"descriptions"`
}

// Category looks up a category by key.
func (b Bank) Category(key string) (Category, bool) {
	for _, c := range b.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Keys returns category keys in declaration order.
func (b Bank) Keys() []string {
	keys := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		keys = append(keys, c.Key)
	}
	return keys
}

// Blurb returns the combined-result text for a primary/secondary pair.
func (b Bank) Blurb(primary, secondary string) string {
	return b.ResultBlurbs[primary+":"+secondary]
}

// Validate checks the bank and reports every problem found at once.
func (b Bank) Validate() error {
	var problems []string

	if len(b.Categories) == 0 {
		problems = append(problems, "no categories defined")
	}
	known := make(map[string]struct{}, len(b.Categories))
	for i, c := range b.Categories {
		if strings.TrimSpace(c.Key) == "" {
			problems = append(problems, fmt.Sprintf("category %d has an empty key", i))
			continue
		}
		if _, dup := known[c.Key]; dup {
			problems = append(problems, fmt.Sprintf("category %q declared twice", c.Key))
		}
		known[c.Key] = struct{}{}
		if c.Colour != "" {
			if _, err := ParseHexColor(c.Colour); err != nil {
				problems = append(problems, fmt.Sprintf("category %q: %v", c.Key, err))
			}
		}
	}

	if len(b.Questions) == 0 {
		problems = append(problems, "question list is empty")
	}
	problems = append(problems, checkQuestions("question", b.Questions, known)...)
	problems = append(problems, checkQuestions("bonus question", b.Bonus, known)...)

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

func checkQuestions(kind string, questions []Question, known map[string]struct{}) []string {
	var problems []string
	for i, q := range questions {
		if len(q.Options) < 2 {
			problems = append(problems, fmt.Sprintf("%s %d has %d options, need at least 2", kind, i, len(q.Options)))
		}
		for j, opt := range q.Options {
			if _, ok := known[opt.Category]; !ok {
				problems = append(problems, fmt.Sprintf("%s %d option %d references unknown category %q", kind, i, j, opt.Category))
			}
		}
	}
	return problems
}

// Tally maps a category key to its raw integer count.
type Tally map[string]int

// Total sums all counts.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Result is the resolved outcome of a finished session.
type Result struct {
	Primary          string `json:"primary"`
	Secondary        string `json:"secondary"`
	PrimaryPercent   int    `json:"primaryPercent"`
	SecondaryPercent int    `json:"secondaryPercent"`
	Pure             bool   `json:"pure"`
	// Counts holds the raw main+bonus tallies the percentages were computed from.
	Counts Tally `json:"counts"`
}

// ParseHexColor decodes "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("bad colour %q: invalid length %d", s, len(hex))
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
