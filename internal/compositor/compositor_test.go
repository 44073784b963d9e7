package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/vovakirdan/rc01/internal/core"
)

func testConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Width = 8
	cfg.Height = 6
	cfg.Scale = 4
	cfg.Padding = 2
	return cfg
}

// testBorder is a 12x10 overlay whose left column is opaque white.
func testBorder() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 10))
	for y := 0; y < 10; y++ {
		img.Set(0, y, color.White)
	}
	return img
}

func newTestCompositor(t *testing.T, cfg core.RuntimeConfig, border image.Image) *Compositor {
	t.Helper()
	c, err := New(cfg, border)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestComposeSizes(t *testing.T) {
	cfg := testConfig()
	c := newTestCompositor(t, cfg, testBorder())
	fb := core.NewFramebuffer(cfg.Width, cfg.Height, cfg.Palette, nil)

	f, err := c.Compose(fb)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if b := f.Sprite.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("sprite size = %dx%d, expected 32x24", b.Dx(), b.Dy())
	}
	if b := f.Image.Bounds(); b.Dx() != 48 || b.Dy() != 40 {
		t.Errorf("window size = %dx%d, expected 48x40", b.Dx(), b.Dy())
	}
	if f.Display != image.Rect(8, 8, 40, 32) {
		t.Errorf("display = %v, expected (8,8)-(40,32)", f.Display)
	}
}

func TestComposeClearedFramebufferIsTransparent(t *testing.T) {
	cfg := testConfig()
	c := newTestCompositor(t, cfg, testBorder())
	fb := core.NewFramebuffer(cfg.Width, cfg.Height, cfg.Palette, nil)
	fb.SetPen(true)
	fb.Rectangle(1, 1, 3, 3, true)
	fb.Clear(false)

	f, err := c.Compose(fb)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if n := f.OpaquePixels(); n != 0 {
		t.Errorf("OpaquePixels() = %d, expected 0", n)
	}

	for y := f.Display.Min.Y; y < f.Display.Max.Y; y++ {
		for x := f.Display.Min.X; x < f.Display.Max.X; x++ {
			if got := rgbaAt(f.Image, x, y); got != cfg.Palette.RenderBackground {
				t.Fatalf("display pixel (%d, %d) = %v, expected render background", x, y, got)
			}
		}
	}
}

func TestComposeSpriteAndShadow(t *testing.T) {
	cfg := testConfig()
	c := newTestCompositor(t, cfg, nil)
	fb := core.NewFramebuffer(cfg.Width, cfg.Height, cfg.Palette, nil)
	fb.Line(0, 0, 0, 0)

	f, err := c.Compose(fb)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if n := f.OpaquePixels(); n != cfg.Scale*cfg.Scale {
		t.Errorf("OpaquePixels() = %d, expected %d", n, cfg.Scale*cfg.Scale)
	}

	origin := f.Display.Min
	if got := rgbaAt(f.Image, origin.X, origin.Y); got != cfg.Palette.Foreground {
		t.Errorf("sprite pixel = %v, expected foreground", got)
	}
	if got := rgbaAt(f.Image, origin.X+cfg.Scale-1, origin.Y+cfg.Scale-1); got != cfg.Palette.Foreground {
		t.Errorf("sprite block corner = %v, expected foreground", got)
	}

	// Offset by half the scale, so the shadow shows past the sprite block.
	shadow := rgbaAt(f.Image, origin.X+cfg.Scale, origin.Y+cfg.Scale)
	if shadow == cfg.Palette.RenderBackground || shadow == cfg.Palette.Foreground {
		t.Errorf("shadow pixel = %v, expected a blend of foreground and render background", shadow)
	}
	if got := rgbaAt(f.Image, origin.X+cfg.Scale+cfg.Scale/2, origin.Y); got != cfg.Palette.RenderBackground {
		t.Errorf("pixel beyond shadow = %v, expected render background", got)
	}
}

func TestComposeShadowDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ShadowAlpha = 0
	c := newTestCompositor(t, cfg, nil)
	fb := core.NewFramebuffer(cfg.Width, cfg.Height, cfg.Palette, nil)
	fb.Line(0, 0, 0, 0)

	f, err := c.Compose(fb)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	origin := f.Display.Min
	if got := rgbaAt(f.Image, origin.X+cfg.Scale, origin.Y+cfg.Scale); got != cfg.Palette.RenderBackground {
		t.Errorf("pixel = %v, expected render background with shadow disabled", got)
	}
}

func TestComposeBorderOverlay(t *testing.T) {
	cfg := testConfig()
	cfg.Palette.Border = color.RGBA{R: 200, G: 10, B: 20, A: 255}
	c := newTestCompositor(t, cfg, testBorder())
	fb := core.NewFramebuffer(cfg.Width, cfg.Height, cfg.Palette, nil)

	f, err := c.Compose(fb)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got := rgbaAt(f.Image, 1, 20); got != cfg.Palette.Border {
		t.Errorf("overlay pixel = %v, expected border tint %v", got, cfg.Palette.Border)
	}
	if got := rgbaAt(f.Image, 6, 20); got != cfg.Palette.Background {
		t.Errorf("frame pixel = %v, expected background %v", got, cfg.Palette.Background)
	}
}

func TestComposeSizeMismatch(t *testing.T) {
	cfg := testConfig()
	c := newTestCompositor(t, cfg, nil)
	fb := core.NewFramebuffer(cfg.Width+1, cfg.Height, cfg.Palette, nil)

	if _, err := c.Compose(fb); err == nil {
		t.Error("Compose() with a mismatched framebuffer should fail")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Scale = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("New() with zero scale should fail")
	}
}
