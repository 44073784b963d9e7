//go:build !headless

// Package window presents the console in a desktop window using Ebitengine.
package window

import (
	"bytes"
	"errors"
	"image/png"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/vovakirdan/rc01/internal/compositor"
	"github.com/vovakirdan/rc01/internal/console"
	"github.com/vovakirdan/rc01/internal/core"
)

// Available reports whether this build can open a window.
const Available = true

var keyMap = map[core.Key]ebiten.Key{
	core.KeyArrowLeft:  ebiten.KeyArrowLeft,
	core.KeyArrowRight: ebiten.KeyArrowRight,
	core.KeyArrowUp:    ebiten.KeyArrowUp,
	core.KeyArrowDown:  ebiten.KeyArrowDown,
	core.KeyA:          ebiten.KeyA,
	core.KeyD:          ebiten.KeyD,
	core.KeyW:          ebiten.KeyW,
	core.KeyS:          ebiten.KeyS,
}

// Keys reads physical key state from Ebitengine.
type Keys struct{}

// IsKeyPressed implements core.KeyState.
func (Keys) IsKeyPressed(k core.Key) bool {
	ek, ok := keyMap[k]
	return ok && ebiten.IsKeyPressed(ek)
}

// game adapts a console to ebiten.Game. Ebitengine calls Update at the
// tick rate, so each Update runs exactly one console frame.
type game struct {
	console *console.Console
	logger  *log.Logger
	width   int
	height  int

	window      *ebiten.Image
	frameBuffer []byte
	err         error

	clipboardOnce sync.Once
	clipboardOK   bool
}

// PollEvents implements console.Driver.
func (g *game) PollEvents() bool {
	return ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// Present keeps the composed pixels for the next Draw.
func (g *game) Present(f *compositor.Frame) error {
	if len(g.frameBuffer) != len(f.Image.Pix) {
		g.frameBuffer = make([]byte, len(f.Image.Pix))
	}
	copy(g.frameBuffer, f.Image.Pix)
	return nil
}

func (g *game) Update() error {
	if err := g.console.Step(g); err != nil {
		if !errors.Is(err, console.ErrClosed) {
			g.err = err
		}
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.copyScreenshot()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frameBuffer == nil {
		return
	}
	if g.window == nil {
		g.window = ebiten.NewImage(g.width, g.height)
	}
	g.window.WritePixels(g.frameBuffer)
	screen.DrawImage(g.window, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// copyScreenshot puts the last frame on the system clipboard as PNG.
func (g *game) copyScreenshot() {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		g.logger.Warn("clipboard unavailable, screenshot not copied")
		return
	}

	frame := g.console.LastFrame()
	if frame == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image); err != nil {
		g.logger.Error("screenshot encode failed", "err", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	g.logger.Info("screenshot copied to clipboard", "frame", g.console.Frames())
}

// Run opens a window sized to the composed frame and runs c until the
// window closes. Escape also closes the window.
func Run(c *console.Console, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	cfg := c.Config()
	w, h := cfg.WindowSize()

	g := &game{
		console: c,
		logger:  logger,
		width:   w,
		height:  h,
	}

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetTPS(cfg.TickRate)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}
