package card

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"spice-theory/internal/domain"
)

var (
	colourTop           = color.NRGBA{R: 0x11, G: 0x12, B: 0x17, A: 0xff}
	colourBottom        = color.NRGBA{R: 0x1b, G: 0x1d, B: 0x27, A: 0xff}
	colourBrand         = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colourBlurb         = color.NRGBA{R: 0xcf, G: 0xd2, B: 0xdc, A: 0xff}
	colourHeading       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colourBody          = color.NRGBA{R: 0xe8, G: 0xe9, B: 0xef, A: 0xff}
	colourBadge         = color.NRGBA{R: 0xe8, G: 0xe9, B: 0xef, A: 0xff}
	colourPillFill      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x1f}
	colourPillStroke    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x33}
	colourPanel         = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x0f}
	colourNeutralBorder = color.NRGBA{R: 0x0f, G: 0x11, B: 0x16, A: 0xff}
	colourMark          = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3}
)

const pillStroke = 2

func accentOr(c color.NRGBA) color.NRGBA {
	if c.A == 0 {
		return domain.FallbackAccent
	}
	return c
}

// paint draws l onto a fresh canvas. images is indexed like l.Boxes; nil entries leave the box empty.
func paint(f *Faces, l Layout, images []image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	paintGradient(dst)

	for _, p := range l.Pills {
		fillRounded(dst, p.Rect, colourPillStroke)
		fillRounded(dst, p.Rect.Inset(pillStroke), colourPillFill)
		drawText(dst, f, p.Label)
	}

	for i, b := range l.Boxes {
		var img image.Image
		if i < len(images) {
			img = images[i]
		}
		paintBox(dst, b, img)
	}

	for _, line := range l.Lines {
		drawText(dst, f, line)
	}
	if l.Watermark != nil {
		drawText(dst, f, *l.Watermark)
	}
	return dst
}

func paintGradient(dst *image.RGBA) {
	b := dst.Bounds()
	span := max(b.Dy()-1, 1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(span)
		row := image.NewUniform(lerp(colourTop, colourBottom, t))
		draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), row, image.Point{}, draw.Src)
	}
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func drawText(dst draw.Image, f *Faces, line TextLine) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(line.Color),
		Face: f.Style(line.Role).Face,
		Dot:  fixed.P(line.X, line.Baseline),
	}
	d.DrawString(line.Text)
}

// fillRounded fills r as a stadium: corner radius is half the height.
func fillRounded(dst draw.Image, r image.Rectangle, c color.Color) {
	w, h := float32(r.Dx()), float32(r.Dy())
	if w <= 0 || h <= 0 {
		return
	}
	rad := min(h, w) / 2
	// Control point distance for a cubic quarter circle.
	k := rad * 0.5523

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.MoveTo(rad, 0)
	z.LineTo(w-rad, 0)
	z.CubeTo(w-rad+k, 0, w, rad-k, w, rad)
	z.LineTo(w, h-rad)
	z.CubeTo(w, h-rad+k, w-rad+k, h, w-rad, h)
	z.LineTo(rad, h)
	z.CubeTo(rad-k, h, 0, h-rad+k, 0, h-rad)
	z.LineTo(0, rad)
	z.CubeTo(0, rad-k, rad-k, 0, rad, 0)
	z.ClosePath()
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

func paintBox(dst *image.RGBA, b Box, img image.Image) {
	draw.Draw(dst, b.Rect, image.NewUniform(colourPanel), image.Point{}, draw.Over)

	if img != nil {
		// Drawing through the sub-image keeps every pixel inside the inner box.
		clip := dst.SubImage(b.Inner).(*image.RGBA)
		draw.CatmullRom.Scale(clip, fitRect(img.Bounds(), b.Inner), img, img.Bounds(), draw.Over, nil)
	}

	border := image.NewUniform(b.Border)
	r := b.Rect
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+borderWidth),
		image.Rect(r.Min.X, r.Max.Y-borderWidth, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+borderWidth, r.Max.Y),
		image.Rect(r.Max.X-borderWidth, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge, border, image.Point{}, draw.Src)
	}
}

// fitRect scales src to fit entirely inside box, preserving aspect ratio, centered.
func fitRect(src, box image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	bw, bh := box.Dx(), box.Dy()
	if sw <= 0 || sh <= 0 || bw <= 0 || bh <= 0 {
		return image.Rectangle{}
	}
	scale := min(float64(bw)/float64(sw), float64(bh)/float64(sh))
	w := max(int(float64(sw)*scale+0.5), 1)
	h := max(int(float64(sh)*scale+0.5), 1)
	w, h = min(w, bw), min(h, bh)
	x := box.Min.X + (bw-w)/2
	y := box.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}
