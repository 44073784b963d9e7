// Package console runs the frame loop that ties a cartridge's script to
// the framebuffer, the compositor and a presentation driver.
package console

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rc01/internal/assets"
	"github.com/vovakirdan/rc01/internal/compositor"
	"github.com/vovakirdan/rc01/internal/config"
	"github.com/vovakirdan/rc01/internal/core"
	"github.com/vovakirdan/rc01/internal/script"
)

// ErrClosed is returned by Step once the console has reached Closing.
var ErrClosed = errors.New("console: closed")

// State is the loop state. Closing is terminal.
type State int

const (
	StateRunning State = iota
	StateClosing
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateClosing:
		return "Closing"
	default:
		return "Unknown"
	}
}

// Driver connects the console to a display.
type Driver interface {
	// PollEvents drains pending window or terminal events and reports
	// whether a close was requested.
	PollEvents() bool
	// Present shows a composed frame. The frame is only valid for the call.
	Present(frame *compositor.Frame) error
}

// Options configures a new console.
type Options struct {
	Config  config.Console
	Name    string        // Cartridge name, used in logs
	Sources fs.FS         // Where the script sources are read from
	Keys    core.KeyState // Physical key state, may be nil
	Logger  *log.Logger
	Now     func() time.Time // Clock source, defaults to time.Now
	Unpaced bool             // Run frames back to back instead of at the tick rate
}

// Console owns every per-run resource.
type Console struct {
	cfg     core.RuntimeConfig
	name    string
	fb      *core.Framebuffer
	input   *core.InputAdapter
	clock   *core.FrameClock
	host    *script.Host
	comp    *compositor.Compositor
	logger  *log.Logger
	unpaced bool

	state   State
	started bool
	last    *compositor.Frame
}

// New builds the framebuffer, compositor and script host and loads the
// cartridge. Any error here is fatal: the loop must not start.
func New(opts Options) (*Console, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Sources == nil {
		return nil, errors.New("console: no script sources")
	}

	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	rt, err := opts.Config.Runtime()
	if err != nil {
		return nil, err
	}

	font, err := assets.Font(assets.FontSpec{
		Path:        opts.Config.Assets.Font,
		GlyphWidth:  opts.Config.Assets.GlyphWidth,
		GlyphHeight: opts.Config.Assets.GlyphHeight,
		Charset:     opts.Config.Assets.CharsetOrDefault(),
	})
	if err != nil {
		return nil, err
	}
	border, err := assets.Border(opts.Config.Assets.Border)
	if err != nil {
		return nil, err
	}
	comp, err := compositor.New(rt, border)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	c := &Console{
		cfg:     rt,
		name:    opts.Name,
		fb:      core.NewFramebuffer(rt.Width, rt.Height, rt.Palette, font),
		input:   core.NewInputAdapter(opts.Keys),
		clock:   core.NewFrameClockWith(now),
		comp:    comp,
		logger:  logger,
		unpaced: opts.Unpaced,
	}

	host, err := script.NewHost(&script.Context{
		Framebuffer: c.fb,
		Input:       c.input,
		Clock:       c.clock,
	}, logger.With("cart", opts.Name))
	if err != nil {
		return nil, err
	}
	if err := host.Load(opts.Sources, opts.Config.Scripts.Libraries, opts.Config.Scripts.Main); err != nil {
		host.Close()
		return nil, err
	}
	c.host = host

	logger.Debug("console ready",
		"cart", opts.Name,
		"size", fmt.Sprintf("%dx%d", rt.Width, rt.Height),
		"scale", rt.Scale,
		"update", host.HasUpdate(),
	)
	return c, nil
}

// Config returns the resolved runtime settings.
func (c *Console) Config() core.RuntimeConfig {
	return c.cfg
}

// Name returns the cartridge name.
func (c *Console) Name() string {
	return c.name
}

// Framebuffer returns the live drawing surface.
func (c *Console) Framebuffer() *core.Framebuffer {
	return c.fb
}

// State returns the current loop state.
func (c *Console) State() State {
	return c.state
}

// Frames returns how many frames completed.
func (c *Console) Frames() uint64 {
	return c.clock.Frames()
}

// Elapsed returns the time since the first frame started.
func (c *Console) Elapsed() time.Duration {
	return c.clock.Elapsed()
}

// LastFrame returns the most recently presented frame, or nil.
func (c *Console) LastFrame() *compositor.Frame {
	return c.last
}

// RequestClose moves the console to Closing.
func (c *Console) RequestClose() {
	if c.state != StateClosing {
		c.logger.Debug("close requested", "cart", c.name)
	}
	c.state = StateClosing
}

// Step runs one frame: poll events, call update, compose and present,
// then measure the frame time. It returns ErrClosed once Closing is
// reached and any script or present error as fatal.
func (c *Console) Step(d Driver) error {
	if c.state == StateClosing {
		return ErrClosed
	}
	if !c.started {
		c.clock.Start()
		c.started = true
	}

	if d.PollEvents() {
		c.RequestClose()
		return ErrClosed
	}

	if err := c.host.Update(); err != nil {
		c.RequestClose()
		return err
	}

	frame, err := c.comp.Compose(c.fb)
	if err != nil {
		c.RequestClose()
		return err
	}
	if err := d.Present(frame); err != nil {
		c.RequestClose()
		return fmt.Errorf("console: present: %w", err)
	}
	c.last = frame

	c.clock.Tick()
	return nil
}

// Run steps frames at the configured tick rate until the driver asks to
// close, ctx is cancelled or a frame fails. A close is not an error.
func (c *Console) Run(ctx context.Context, d Driver) error {
	var tick <-chan time.Time
	if !c.unpaced {
		ticker := time.NewTicker(time.Second / time.Duration(c.cfg.TickRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			c.RequestClose()
			return nil
		default:
		}

		if err := c.Step(d); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				c.RequestClose()
				return nil
			case <-tick:
			}
		}
	}
}

// Close releases the script environment.
func (c *Console) Close() {
	c.RequestClose()
	if c.host != nil {
		c.host.Close()
		c.host = nil
	}
}
