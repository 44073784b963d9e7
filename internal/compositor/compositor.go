// Package compositor turns the two-tone framebuffer into the decorated,
// upscaled window image.
//
// Each frame is built in a fixed order:
//
//  1. snapshot the framebuffer
//  2. chroma-key Background to transparent, leaving a cutout sprite
//  3. scale the sprite by the integer display scale (nearest neighbour)
//  4. paint the render background, the drop shadow, the sprite and
//     finally the tinted border overlay
package compositor

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/rc01/internal/core"
)

// Frame is one composed window image.
// Its buffers are reused by the next Compose call.
type Frame struct {
	Image   *image.RGBA     // Whole window, ready to present
	Sprite  *image.NRGBA    // Scaled cutout of the drawn pixels
	Display image.Rectangle // Where Sprite sits inside Image
	Scale   int
}

// OpaquePixels counts the sprite pixels that survived the chroma key.
func (f *Frame) OpaquePixels() int {
	n := 0
	for i := 3; i < len(f.Sprite.Pix); i += 4 {
		if f.Sprite.Pix[i] != 0 {
			n++
		}
	}
	return n
}

// Compositor holds the per-console presentation state.
type Compositor struct {
	cfg     core.RuntimeConfig
	overlay *image.NRGBA // Border scaled to the window and tinted
	cutout  *image.NRGBA
	frame   Frame
}

// New prepares a compositor for cfg. border may be nil for no overlay.
func New(cfg core.RuntimeConfig, border image.Image) (*Compositor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("compositor: %w", err)
	}

	winW, winH := cfg.WindowSize()
	s := cfg.Scale
	pad := cfg.Padding * s
	display := image.Rect(pad, pad, pad+cfg.Width*s, pad+cfg.Height*s)

	c := &Compositor{
		cfg:    cfg,
		cutout: image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		frame: Frame{
			Image:   image.NewRGBA(image.Rect(0, 0, winW, winH)),
			Sprite:  image.NewNRGBA(image.Rect(0, 0, cfg.Width*s, cfg.Height*s)),
			Display: display,
			Scale:   s,
		},
	}
	if border != nil {
		c.overlay = tint(scaleTo(border, winW, winH), cfg.Palette.Border)
	}
	return c, nil
}

// WindowSize returns the composed image size in device pixels.
func (c *Compositor) WindowSize() (int, int) {
	return c.cfg.WindowSize()
}

// Compose renders fb into the window image.
func (c *Compositor) Compose(fb *core.Framebuffer) (*Frame, error) {
	if fb.Width() != c.cfg.Width || fb.Height() != c.cfg.Height {
		return nil, fmt.Errorf("compositor: framebuffer is %dx%d, expected %dx%d",
			fb.Width(), fb.Height(), c.cfg.Width, c.cfg.Height)
	}

	snap := fb.Image()
	chromaKey(c.cutout, snap, c.cfg.Palette.Foreground)

	f := &c.frame
	draw.NearestNeighbor.Scale(f.Sprite, f.Sprite.Bounds(), c.cutout, c.cutout.Bounds(), draw.Src, nil)

	pal := c.cfg.Palette
	dst := f.Image
	draw.Draw(dst, dst.Bounds(), image.NewUniform(pal.Background), image.Point{}, draw.Src)
	draw.Draw(dst, f.Display, image.NewUniform(pal.RenderBackground), image.Point{}, draw.Src)

	if c.cfg.ShadowAlpha > 0 {
		offset := c.cfg.Scale / 2
		shadow := color.NRGBA{R: pal.Foreground.R, G: pal.Foreground.G, B: pal.Foreground.B, A: c.cfg.ShadowAlpha}
		r := f.Display.Add(image.Pt(offset, offset))
		draw.DrawMask(dst, r, image.NewUniform(shadow), image.Point{}, f.Sprite, image.Point{}, draw.Over)
	}

	draw.Draw(dst, f.Display, f.Sprite, image.Point{}, draw.Over)

	if c.overlay != nil {
		draw.Draw(dst, dst.Bounds(), c.overlay, image.Point{}, draw.Over)
	}
	return f, nil
}

// chromaKey writes the non-Background pixels of src into dst as opaque ink
// and everything else as fully transparent.
func chromaKey(dst *image.NRGBA, src *image.Paletted, ink color.RGBA) {
	bg := uint8(core.ToneBackground)
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := dst.PixOffset(x, y)
			if src.Pix[y*src.Stride+x] == bg {
				dst.Pix[i+0], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
				continue
			}
			dst.Pix[i+0], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = ink.R, ink.G, ink.B, 0xff
		}
	}
}

// scaleTo resizes img to w x h without smoothing.
func scaleTo(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// tint multiplies every pixel of img by c in place.
func tint(img *image.NRGBA, c color.RGBA) *image.NRGBA {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(uint16(img.Pix[i+0]) * uint16(c.R) / 0xff)
		img.Pix[i+1] = uint8(uint16(img.Pix[i+1]) * uint16(c.G) / 0xff)
		img.Pix[i+2] = uint8(uint16(img.Pix[i+2]) * uint16(c.B) / 0xff)
		img.Pix[i+3] = uint8(uint16(img.Pix[i+3]) * uint16(c.A) / 0xff)
	}
	return img
}
