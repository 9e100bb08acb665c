package card

import (
	"fmt"
	"image"
	"image/color"

	"spice-theory/internal/app"
)

const (
	Width = 1080
	Pad   = 56

	brandText      = "Spice Theory"
	titleGap       = 78
	titleBlock     = 100
	badgeHeight    = 48
	badgePadX      = 18
	badgeGap       = 12
	afterBadgesGap = 32
	imageHeight    = 520
	innerPad       = 18
	borderWidth    = 6
	textGap        = 36
	sectionGap     = 22
	headingHeight  = 46
	watermarkDrop  = 8

	contentWidth = Width - 2*Pad
)

// Panel is one image slot on the card.
type Panel struct {
	Key   string
	Image string
}

// Content is the text and image references a card is built from.
type Content struct {
	Title         string
	Accent        color.NRGBA
	Badges        []app.Badge
	Pure          bool
	Primary       Panel
	Secondary     Panel
	Blurb         string
	PrimaryName   string
	PrimaryText   string
	SecondaryName string
	SecondaryText string
	Watermark     string
}

// ContentFor maps a resolved summary onto card content.
func ContentFor(sum app.Summary, watermark string) Content {
	return Content{
		Title:         sum.Title,
		Accent:        sum.Accent,
		Badges:        sum.Badges,
		Pure:          sum.Result.Pure || sum.Result.Primary == sum.Result.Secondary,
		Primary:       Panel{Key: sum.Primary.Key, Image: sum.Primary.Image},
		Secondary:     Panel{Key: sum.Secondary.Key, Image: sum.Secondary.Image},
		Blurb:         sum.Blurb,
		PrimaryName:   sum.Primary.DisplayName(),
		PrimaryText:   sum.PrimaryText,
		SecondaryName: sum.Secondary.DisplayName(),
		SecondaryText: sum.SecondaryText,
		Watermark:     watermark,
	}
}

// TextLine is a single run of text positioned by its baseline.
type TextLine struct {
	Role     Role
	Text     string
	X        int
	Baseline int
	Color    color.NRGBA
}

// Pill is a rounded badge with its label.
type Pill struct {
	Rect  image.Rectangle
	Label TextLine
}

// Box is an image slot: Rect is the outer border, Inner the area the image is fitted into.
type Box struct {
	Rect   image.Rectangle
	Inner  image.Rectangle
	Border color.NRGBA
	Panel  Panel
}

// Layout is the fully measured card. Painting reads nothing else.
type Layout struct {
	Width  int
	Height int
	Lines  []TextLine
	Pills  []Pill
	Boxes  []Box
	// Watermark sits in the bottom padding and is not part of the content.
	Watermark *TextLine
	// ContentBottom is the lowest y any content line may reach.
	ContentBottom int
}

type cursor struct {
	faces *Faces
	y     int
	lines []TextLine
}

// block wraps text in role's face and advances by step per line.
func (c *cursor) block(role Role, text string, col color.NRGBA, step int) {
	st := c.faces.Style(role)
	step = max(step, st.LineHeight)
	for _, l := range Wrap(st.Face, text, contentWidth) {
		c.lines = append(c.lines, TextLine{Role: role, Text: l, X: Pad, Baseline: c.y + st.Ascent, Color: col})
		c.y += step
	}
}

// Measure computes every element's position and the canvas height for c.
func Measure(f *Faces, c Content) Layout {
	cur := &cursor{faces: f, y: Pad}

	cur.block(RoleBrand, brandText, colourBrand, titleGap)
	cur.block(RoleTitle, c.Title, accentOr(c.Accent), titleBlock)

	pills, rowsBottom := measurePills(f, c.Badges, cur.y)
	if len(pills) > 0 {
		cur.y = rowsBottom + afterBadgesGap
	}

	boxes := measureBoxes(c, cur.y)
	cur.y += imageHeight + textGap

	if c.Blurb != "" {
		cur.block(RoleBlurb, c.Blurb, colourBlurb, 0)
	}

	cur.y += sectionGap
	cur.block(RoleHeading, "Primary, "+c.PrimaryName, colourHeading, headingHeight)
	cur.block(RoleBody, c.PrimaryText, colourBody, 0)

	if !c.Pure {
		cur.y += sectionGap
		cur.block(RoleHeading, "Secondary, "+c.SecondaryName, colourHeading, headingHeight)
		cur.block(RoleBody, c.SecondaryText, colourBody, 0)
	}

	l := Layout{
		Width:         Width,
		Height:        cur.y + Pad,
		Lines:         cur.lines,
		Pills:         pills,
		Boxes:         boxes,
		ContentBottom: cur.y,
	}
	if c.Watermark != "" {
		mark := f.Style(RoleMark)
		l.Watermark = &TextLine{
			Role:     RoleMark,
			Text:     c.Watermark,
			X:        Pad,
			Baseline: l.Height - Pad + watermarkDrop + mark.Ascent,
			Color:    colourMark,
		}
	}
	return l
}

func measurePills(f *Faces, badges []app.Badge, top int) ([]Pill, int) {
	st := f.Style(RoleBadge)
	x, y := Pad, top
	pills := make([]Pill, 0, len(badges))
	for _, b := range badges {
		w := textWidth(st.Face, b.Text) + 2*badgePadX
		if x > Pad && x+w > Width-Pad {
			x = Pad
			y += badgeHeight + badgeGap
		}
		col := colourBadge
		if b.Emphasis {
			col = colourHeading
		}
		pills = append(pills, Pill{
			Rect: image.Rect(x, y, x+w, y+badgeHeight),
			Label: TextLine{
				Role:     RoleBadge,
				Text:     b.Text,
				X:        x + badgePadX,
				Baseline: y + (badgeHeight-st.Ascent-st.Descent)/2 + st.Ascent,
				Color:    col,
			},
		})
		x += w + badgeGap
	}
	return pills, y + badgeHeight
}

func measureBoxes(c Content, top int) []Box {
	accent := accentOr(c.Accent)
	if c.Pure {
		return []Box{newBox(image.Rect(Pad, top, Width-Pad, top+imageHeight), accent, c.Primary)}
	}
	w := (Width - 3*Pad) / 2
	return []Box{
		newBox(image.Rect(Pad, top, Pad+w, top+imageHeight), colourNeutralBorder, c.Secondary),
		newBox(image.Rect(2*Pad+w, top, 2*Pad+2*w, top+imageHeight), accent, c.Primary),
	}
}

func newBox(r image.Rectangle, border color.NRGBA, p Panel) Box {
	return Box{Rect: r, Inner: r.Inset(innerPad), Border: border, Panel: p}
}

// Verify re-measures c and checks that l fits everything it holds.
func Verify(f *Faces, c Content, l Layout) error {
	again := Measure(f, c)
	if again.Height != l.Height {
		return fmt.Errorf("height %d does not match measured %d", l.Height, again.Height)
	}
	limit := l.Height - Pad
	for _, line := range l.Lines {
		if bottom := line.Baseline + f.Style(line.Role).Descent; bottom > limit {
			return fmt.Errorf("line %q reaches %d, past %d", line.Text, bottom, limit)
		}
		if right := line.X + textWidth(f.Style(line.Role).Face, line.Text); right > Width-Pad {
			return fmt.Errorf("line %q reaches x=%d, past %d", line.Text, right, Width-Pad)
		}
	}
	for i, p := range l.Pills {
		if p.Rect.Max.X > Width-Pad {
			return fmt.Errorf("pill %d reaches x=%d, past %d", i, p.Rect.Max.X, Width-Pad)
		}
	}
	for i, b := range l.Boxes {
		if b.Rect.Max.Y > limit {
			return fmt.Errorf("box %d reaches %d, past %d", i, b.Rect.Max.Y, limit)
		}
		for j := i + 1; j < len(l.Boxes); j++ {
			if b.Rect.Overlaps(l.Boxes[j].Rect) {
				return fmt.Errorf("boxes %d and %d overlap", i, j)
			}
		}
	}
	return nil
}
