// Package assets provides the console's built-in images and decodes
// replacement images from disk.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	_ "image/png" // PNG atlas and overlay files
	"os"

	_ "golang.org/x/image/bmp" // BMP atlas and overlay files

	"github.com/vovakirdan/rc01/internal/core"
)

//go:embed data/font.png
var fontPNG []byte

//go:embed data/border.png
var borderPNG []byte

// FontSpec describes how to slice a font strip into glyphs.
type FontSpec struct {
	Path        string // Empty selects the built-in strip
	GlyphWidth  int
	GlyphHeight int
	Charset     string
}

// DefaultFontSpec returns the layout of the built-in font strip.
func DefaultFontSpec() FontSpec {
	return FontSpec{
		GlyphWidth:  core.DefaultGlyphWidth,
		GlyphHeight: core.DefaultGlyphHeight,
		Charset:     core.DefaultCharset,
	}
}

// Decode decodes a PNG or BMP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadImage reads and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: failed to read %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("assets: failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Border returns the overlay drawn over the composed frame.
// An empty path selects the built-in overlay.
func Border(path string) (image.Image, error) {
	if path != "" {
		return LoadImage(path)
	}
	img, err := Decode(borderPNG)
	if err != nil {
		return nil, fmt.Errorf("assets: built-in border: %w", err)
	}
	return img, nil
}

// Font builds the glyph atlas described by font.
func Font(font FontSpec) (*core.FontAtlas, error) {
	var (
		strip image.Image
		err   error
	)
	if font.Path != "" {
		strip, err = LoadImage(font.Path)
	} else {
		strip, err = Decode(fontPNG)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: font: %w", err)
	}

	if font.Charset == "" {
		font.Charset = core.DefaultCharset
	}
	atlas, err := core.NewFontAtlas(strip, font.GlyphWidth, font.GlyphHeight, font.Charset)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return atlas, nil
}
