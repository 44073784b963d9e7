package assets

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/rc01/internal/core"
)

func TestBuiltinFont(t *testing.T) {
	f, err := Font(DefaultFontSpec())
	if err != nil {
		t.Fatalf("Font() error = %v", err)
	}
	if f.GlyphWidth() != core.DefaultGlyphWidth || f.GlyphHeight() != core.DefaultGlyphHeight {
		t.Errorf("glyph size = %dx%d, expected %dx%d",
			f.GlyphWidth(), f.GlyphHeight(), core.DefaultGlyphWidth, core.DefaultGlyphHeight)
	}

	idx, ok := f.Lookup('A')
	if !ok {
		t.Fatal("Lookup('A') not found in built-in atlas")
	}
	ink := 0
	for y := 0; y < f.GlyphHeight(); y++ {
		for x := 0; x < f.GlyphWidth(); x++ {
			if f.Ink(idx, x, y) {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Error("glyph 'A' has no ink")
	}

	space, _ := f.Lookup(' ')
	for y := 0; y < f.GlyphHeight(); y++ {
		for x := 0; x < f.GlyphWidth(); x++ {
			if f.Ink(space, x, y) {
				t.Fatalf("space glyph has ink at (%d, %d)", x, y)
			}
		}
	}
}

func TestBuiltinBorder(t *testing.T) {
	img, err := Border("")
	if err != nil {
		t.Fatalf("Border() error = %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 104 || b.Dy() != 72 {
		t.Errorf("border size = %dx%d, expected 104x72", b.Dx(), b.Dy())
	}
	if _, _, _, a := img.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2).RGBA(); a != 0 {
		t.Error("border interior should be transparent")
	}
}

func TestLoadBMPFont(t *testing.T) {
	strip := image.NewRGBA(image.Rect(0, 0, 4, 2))
	strip.Set(0, 0, color.Black)
	for x := 2; x < 4; x++ {
		for y := 0; y < 2; y++ {
			strip.Set(x, y, color.Transparent)
		}
	}

	path := filepath.Join(t.TempDir(), "font.bmp")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(fh, strip); err != nil {
		t.Fatal(err)
	}
	fh.Close()

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("decoded size = %v, expected 4x2", img.Bounds())
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("LoadImage() of a missing file should fail")
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(junk); err == nil {
		t.Error("LoadImage() of a non-image should fail")
	}
	if _, err := Font(FontSpec{Path: junk, GlyphWidth: 4, GlyphHeight: 6}); err == nil {
		t.Error("Font() with an undecodable strip should fail")
	}
	if _, err := Border(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Border() with a missing override should fail")
	}
}
