package domain

import (
	"image/color"
	"unicode"
	"unicode/utf8"
)

// FallbackAccent is used when a category has neither a colour nor a palette entry.
var FallbackAccent = color.NRGBA{R: 0x6a, G: 0x5c, B: 0xff, A: 0xff}

var brandPalette = map[string]color.NRGBA{
	"posh":   {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	"baby":   {R: 0xff, G: 0x7a, B: 0xb6, A: 0xff},
	"sporty": {R: 0x2b, G: 0x6e, B: 0xff, A: 0xff},
	"ginger": {R: 0xff, G: 0x7b, B: 0x00, A: 0xff},
	"scary":  {R: 0xf0, G: 0xe8, B: 0x57, A: 0xff},
}

var pureTitles = map[string]string{
	"posh":   "True Posh",
	"baby":   "All Baby",
	"sporty": "Hard Sporty",
	"ginger": "Full Ginger",
	"scary":  "Max Scary",
}

// Accent resolves the brand colour of a category.
func (c Category) Accent() color.NRGBA {
	if c.Colour != "" {
		if col, err := ParseHexColor(c.Colour); err == nil {
			return col
		}
	}
	if col, ok := brandPalette[c.Key]; ok {
		return col
	}
	return FallbackAccent
}

// SoloTitle is the headline shown when a category is both primary and secondary.
func (c Category) SoloTitle() string {
	if c.PureTitle != "" {
		return c.PureTitle
	}
	if title, ok := pureTitles[c.Key]; ok {
		return title
	}
	return Capitalize(c.Key)
}

// DisplayName falls back to the capitalized key when Name is unset.
func (c Category) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return Capitalize(c.Key)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
