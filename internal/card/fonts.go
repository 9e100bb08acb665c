package card

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Role names a text style on the card.
type Role int

const (
	RoleBrand Role = iota
	RoleTitle
	RoleBadge
	RoleHeading
	RoleBlurb
	RoleBody
	RoleMark
)

// Style is a face plus the vertical metrics the layout needs.
type Style struct {
	Face font.Face
	// LineHeight is the advance between wrapped lines, never less than Ascent+Descent.
	LineHeight int
	Ascent     int
	Descent    int
}

// Faces holds one Style per Role. Faces are not safe for concurrent use.
type Faces struct {
	styles map[Role]Style
}

// Style returns the style for r.
func (f *Faces) Style(r Role) Style { return f.styles[r] }

type fontName string

const (
	fontBold    fontName = "go-bold"
	fontMedium  fontName = "go-medium"
	fontRegular fontName = "go-regular"
)

var fontData = map[fontName][]byte{
	fontBold:    gobold.TTF,
	fontMedium:  gomedium.TTF,
	fontRegular: goregular.TTF,
}

type faceSpec struct {
	font       fontName
	size       float64
	lineHeight int
}

var faceSpecs = map[Role]faceSpec{
	RoleBrand:   {fontBold, 64, 0},
	RoleTitle:   {fontBold, 84, 0},
	RoleBadge:   {fontBold, 36, 0},
	RoleHeading: {fontBold, 36, headingHeight},
	RoleBlurb:   {fontMedium, 34, 44},
	RoleBody:    {fontRegular, 30, 40},
	RoleMark:    {fontMedium, 26, 0},
}

// LoadFaces parses the bundled Go fonts at the card's point sizes.
func LoadFaces() (*Faces, error) {
	parsed := make(map[fontName]*opentype.Font, len(fontData))
	for name, ttf := range fontData {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		parsed[name] = f
	}

	styles := make(map[Role]Style, len(faceSpecs))
	for role, fs := range faceSpecs {
		face, err := opentype.NewFace(parsed[fs.font], &opentype.FaceOptions{
			Size:    fs.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("new face %.0fpx: %w", fs.size, err)
		}
		m := face.Metrics()
		st := Style{
			Face:    face,
			Ascent:  m.Ascent.Ceil(),
			Descent: m.Descent.Ceil(),
		}
		st.LineHeight = max(fs.lineHeight, st.Ascent+st.Descent)
		styles[role] = st
	}
	return &Faces{styles: styles}, nil
}
