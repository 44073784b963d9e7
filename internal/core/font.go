package core

import (
	"fmt"
	"image"
	"unicode"
	"unicode/utf8"
)

// DefaultCharset lists the characters of the bundled atlas strip, in order.
// It covers ASCII 0x20 through 0x5F.
const DefaultCharset = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_"

// Default glyph cell size of the bundled atlas.
const (
	DefaultGlyphWidth  = 4
	DefaultGlyphHeight = 6
)

// FontAtlas maps characters to glyphs of a fixed-width bitmap strip.
// A glyph pixel is ink when its alpha is at least half opaque.
type FontAtlas struct {
	glyphW int
	glyphH int
	index  map[rune]int
	ink    [][]bool
}

// NewFontAtlas slices a horizontal strip into glyph cells, one per rune of
// charset, left to right.
func NewFontAtlas(strip image.Image, glyphW, glyphH int, charset string) (*FontAtlas, error) {
	if glyphW <= 0 || glyphH <= 0 {
		return nil, fmt.Errorf("font: invalid glyph size %dx%d", glyphW, glyphH)
	}
	count := utf8.RuneCountInString(charset)
	if count == 0 {
		return nil, fmt.Errorf("font: empty charset")
	}

	b := strip.Bounds()
	if b.Dx() < glyphW*count || b.Dy() < glyphH {
		return nil, fmt.Errorf("font: strip %dx%d too small for %d glyphs of %dx%d",
			b.Dx(), b.Dy(), count, glyphW, glyphH)
	}

	f := &FontAtlas{
		glyphW: glyphW,
		glyphH: glyphH,
		index:  make(map[rune]int, count),
		ink:    make([][]bool, 0, count),
	}

	i := 0
	for _, r := range charset {
		if _, dup := f.index[r]; !dup {
			f.index[r] = i
		}
		cell := make([]bool, glyphW*glyphH)
		for y := 0; y < glyphH; y++ {
			for x := 0; x < glyphW; x++ {
				_, _, _, a := strip.At(b.Min.X+i*glyphW+x, b.Min.Y+y).RGBA()
				cell[y*glyphW+x] = a >= 0x8000
			}
		}
		f.ink = append(f.ink, cell)
		i++
	}
	return f, nil
}

// GlyphWidth returns the horizontal advance of every character.
func (f *FontAtlas) GlyphWidth() int {
	return f.glyphW
}

// GlyphHeight returns the height of a glyph cell.
func (f *FontAtlas) GlyphHeight() int {
	return f.glyphH
}

// Lookup returns the glyph index for r. Lowercase letters fall back to
// their uppercase glyph when the atlas has no lowercase form.
func (f *FontAtlas) Lookup(r rune) (int, bool) {
	if i, ok := f.index[r]; ok {
		return i, true
	}
	if unicode.IsLower(r) {
		if i, ok := f.index[unicode.ToUpper(r)]; ok {
			return i, true
		}
	}
	return 0, false
}

// Ink reports whether pixel (x, y) of glyph i is painted.
func (f *FontAtlas) Ink(i, x, y int) bool {
	if i < 0 || i >= len(f.ink) || x < 0 || x >= f.glyphW || y < 0 || y >= f.glyphH {
		return false
	}
	return f.ink[i][y*f.glyphW+x]
}
