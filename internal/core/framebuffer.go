package core

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// bezierCircle is the cubic control distance for a quarter circle of radius 1.
const bezierCircle = 0.5522847498

// rasterLimit is the largest radius or center offset Circle hands to the
// vector rasterizer.
const rasterLimit = 1 << 12

// Framebuffer is the fixed-size, two-tone pixel surface scripts draw into.
// Every drawing operation paints with the current pen tone; pixels are stored
// as palette indices so no third color can ever appear.
// Out-of-bounds coordinates are clipped silently by every primitive.
type Framebuffer struct {
	width   int
	height  int
	palette Palette
	pixels  *image.Paletted
	pen     Tone
	font    *FontAtlas
	raster  *vector.Rasterizer
}

// NewFramebuffer creates a surface cleared to Background with the pen set to
// Foreground. font may be nil, in which case text advances without drawing.
func NewFramebuffer(width, height int, palette Palette, font *FontAtlas) *Framebuffer {
	fb := &Framebuffer{
		width:   width,
		height:  height,
		palette: palette,
		pixels: image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{
			palette.Background,
			palette.Foreground,
		}),
		pen:    ToneForeground,
		font:   font,
		raster: vector.NewRasterizer(1, 1),
	}
	fb.Clear(false)
	return fb
}

// Width returns the surface width in pixels.
func (fb *Framebuffer) Width() int {
	return fb.width
}

// Height returns the surface height in pixels.
func (fb *Framebuffer) Height() int {
	return fb.height
}

// Bounds returns the surface area as a Rect.
func (fb *Framebuffer) Bounds() Rect {
	return Rect{W: fb.width, H: fb.height}
}

// Palette returns the colors the surface maps its tones to.
func (fb *Framebuffer) Palette() Palette {
	return fb.palette
}

// Font returns the atlas used by DrawText, or nil.
func (fb *Framebuffer) Font() *FontAtlas {
	return fb.font
}

// Pen returns the current pen tone.
func (fb *Framebuffer) Pen() Tone {
	return fb.pen
}

// SetPen selects Foreground when on is true, Background otherwise.
func (fb *Framebuffer) SetPen(on bool) {
	fb.pen = ToneFor(on)
}

// Clear fills the whole surface with the pen tone when fill is true,
// or with Background otherwise.
func (fb *Framebuffer) Clear(fill bool) {
	tone := ToneBackground
	if fill {
		tone = fb.pen
	}
	idx := uint8(tone)
	for i := range fb.pixels.Pix {
		fb.pixels.Pix[i] = idx
	}
}

// At returns the tone at (x, y). Out-of-bounds reads return Background.
func (fb *Framebuffer) At(x, y int) Tone {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return ToneBackground
	}
	return Tone(fb.pixels.Pix[y*fb.pixels.Stride+x])
}

// Count returns how many pixels currently hold tone t.
func (fb *Framebuffer) Count(t Tone) int {
	n := 0
	for _, p := range fb.pixels.Pix {
		if Tone(p) == t {
			n++
		}
	}
	return n
}

// Image returns a snapshot of the surface as a paletted image.
func (fb *Framebuffer) Image() *image.Paletted {
	snap := image.NewPaletted(fb.pixels.Rect, fb.pixels.Palette)
	copy(snap.Pix, fb.pixels.Pix)
	return snap
}

// plot paints one pixel with the pen tone, ignoring out-of-bounds points.
func (fb *Framebuffer) plot(x, y int) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.pixels.Pix[y*fb.pixels.Stride+x] = uint8(fb.pen)
}

// span paints the clipped horizontal run [x0, x1) on row y.
func (fb *Framebuffer) span(x0, x1, y int) {
	if y < 0 || y >= fb.height {
		return
	}
	x0 = Clamp(x0, 0, fb.width)
	x1 = Clamp(x1, 0, fb.width)
	row := fb.pixels.Pix[y*fb.pixels.Stride:]
	for x := x0; x < x1; x++ {
		row[x] = uint8(fb.pen)
	}
}

// column paints the clipped vertical run [y0, y1) on column x.
func (fb *Framebuffer) column(x, y0, y1 int) {
	if x < 0 || x >= fb.width {
		return
	}
	y0 = Clamp(y0, 0, fb.height)
	y1 = Clamp(y1, 0, fb.height)
	for y := y0; y < y1; y++ {
		fb.pixels.Pix[y*fb.pixels.Stride+x] = uint8(fb.pen)
	}
}

// HorizontalLine draws a full-width line on row y.
func (fb *Framebuffer) HorizontalLine(y int) {
	fb.span(0, fb.width, y)
}

// VerticalLine draws a full-height line on column x.
func (fb *Framebuffer) VerticalLine(x int) {
	fb.column(x, 0, fb.height)
}

// Line draws a segment between two grid points, both ends included.
// The segment runs through pixel centers (each point offset by half a pixel),
// so the pixel chosen on the minor axis is the one containing the center line.
// Endpoints beyond MaxCoord are pulled in to it first.
func (fb *Framebuffer) Line(x1, y1, x2, y2 int) {
	x1, y1 = ClampCoord(x1), ClampCoord(y1)
	x2, y2 = ClampCoord(x2), ClampCoord(y2)
	dx, dy := x2-x1, y2-y1
	if Abs(dx) >= Abs(dy) {
		if dx == 0 {
			fb.plot(x1, y1)
			return
		}
		if x1 > x2 {
			x1, y1, x2, y2 = x2, y2, x1, y1
			dx, dy = -dx, -dy
		}
		slope := float64(dy) / float64(dx)
		start := Max(x1, 0)
		end := Min(x2, fb.width-1)
		for x := start; x <= end; x++ {
			y := int(math.Floor(float64(y1) + 0.5 + float64(x-x1)*slope))
			fb.plot(x, y)
		}
		return
	}

	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
		dx, dy = -dx, -dy
	}
	slope := float64(dx) / float64(dy)
	start := Max(y1, 0)
	end := Min(y2, fb.height-1)
	for y := start; y <= end; y++ {
		x := int(math.Floor(float64(x1) + 0.5 + float64(y-y1)*slope))
		fb.plot(x, y)
	}
}

// Rectangle draws a filled rectangle, or a one pixel outline whose interior
// is left untouched.
func (fb *Framebuffer) Rectangle(x, y, w, h int, fill bool) {
	x0, y0 := ClampCoord(x), ClampCoord(y)
	x1, y1 := ClampCoord(addSat(x, w)), ClampCoord(addSat(y, h))
	r := NewRect(x0, y0, x1-x0, y1-y0)
	if r.Empty() {
		return
	}
	if fill {
		clip := r.Intersect(fb.Bounds())
		for row := clip.Y; row < clip.Bottom(); row++ {
			fb.span(clip.X, clip.Right(), row)
		}
		return
	}
	fb.span(r.X, r.Right(), r.Y)
	fb.span(r.X, r.Right(), r.Bottom()-1)
	fb.column(r.X, r.Y, r.Bottom())
	fb.column(r.Right()-1, r.Y, r.Bottom())
}

// Circle draws a disk of the given radius centered on pixel (x, y), or a one
// pixel ring when fill is false. Pixels more than half covered are painted.
func (fb *Framebuffer) Circle(x, y, radius float64, fill bool) {
	if math.IsNaN(radius) || math.IsNaN(x) || math.IsNaN(y) || radius < 0 {
		return
	}
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	outer := radius + 0.5
	inner := radius - 0.5
	cx, cy := x+0.5, y+0.5
	if outer > rasterLimit || math.Abs(cx) > rasterLimit || math.Abs(cy) > rasterLimit {
		fb.circleFar(cx, cy, radius, fill)
		return
	}

	box := Rect{
		X: int(math.Floor(cx - outer)),
		Y: int(math.Floor(cy - outer)),
	}
	box.W = int(math.Ceil(cx+outer)) - box.X
	box.H = int(math.Ceil(cy+outer)) - box.Y
	clip := box.Intersect(fb.Bounds())
	if clip.Empty() {
		return
	}

	// Rasterize in coordinates local to the clipped box.
	ox := float32(cx - float64(clip.X))
	oy := float32(cy - float64(clip.Y))
	z := fb.raster
	z.Reset(clip.W, clip.H)
	circlePath(z, ox, oy, float32(outer), false)
	if !fill && inner > 0 {
		circlePath(z, ox, oy, float32(inner), true)
	}
	mask := image.NewAlpha(image.Rect(0, 0, clip.W, clip.H))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for my := 0; my < clip.H; my++ {
		for mx := 0; mx < clip.W; mx++ {
			if mask.Pix[my*mask.Stride+mx] >= 0x80 {
				fb.plot(clip.X+mx, clip.Y+my)
			}
		}
	}
}

// circleFar handles circles too large or too distant for the float32
// rasterizer. Their edge is straight across any one pixel, so a pixel is
// more than half covered exactly when its center is inside.
func (fb *Framebuffer) circleFar(cx, cy, radius float64, fill bool) {
	for py := 0; py < fb.height; py++ {
		for px := 0; px < fb.width; px++ {
			d := math.Hypot(float64(px)+0.5-cx, float64(py)+0.5-cy)
			if d > radius+0.5 {
				continue
			}
			if !fill && d <= radius-0.5 {
				continue
			}
			fb.plot(px, py)
		}
	}
}

// circlePath appends a closed four-segment cubic approximation of a circle.
// Reversed paths wind the other way and cut holes into earlier ones.
func circlePath(z *vector.Rasterizer, cx, cy, r float32, reversed bool) {
	k := float32(bezierCircle) * r
	z.MoveTo(cx+r, cy)
	if !reversed {
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	z.ClosePath()
}

// DrawText draws text left to right from (x, y), one glyph cell per
// character. Characters missing from the atlas are skipped but still consume
// their cell. It returns the x position following the last cell.
func (fb *Framebuffer) DrawText(x, y int, text string) int {
	advance := DefaultGlyphWidth
	if fb.font != nil {
		advance = fb.font.GlyphWidth()
	}

	cursor := x
	for _, r := range text {
		if fb.font != nil {
			if idx, ok := fb.font.Lookup(r); ok {
				fb.drawGlyph(idx, cursor, y)
			}
		}
		cursor += advance
	}
	return cursor
}

func (fb *Framebuffer) drawGlyph(idx, x, y int) {
	for gy := 0; gy < fb.font.GlyphHeight(); gy++ {
		for gx := 0; gx < fb.font.GlyphWidth(); gx++ {
			if fb.font.Ink(idx, gx, gy) {
				fb.plot(x+gx, y+gy)
			}
		}
	}
}
