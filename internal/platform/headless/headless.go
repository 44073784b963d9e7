// Package headless runs a console without a display. Frames are kept in
// memory so the last one can be saved as a screenshot.
package headless

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/vovakirdan/rc01/internal/compositor"
)

// Driver closes the console after a fixed number of presented frames.
type Driver struct {
	maxFrames int
	presented int
	last      *image.RGBA
}

// New creates a driver that requests a close once maxFrames frames were
// presented. A non-positive maxFrames never closes.
func New(maxFrames int) *Driver {
	return &Driver{maxFrames: maxFrames}
}

// PollEvents implements console.Driver.
func (d *Driver) PollEvents() bool {
	return d.Exhausted()
}

// Exhausted reports whether the frame budget was used up.
func (d *Driver) Exhausted() bool {
	return d.maxFrames > 0 && d.presented >= d.maxFrames
}

// Present copies the composed window image.
func (d *Driver) Present(f *compositor.Frame) error {
	if d.last == nil || d.last.Rect != f.Image.Rect {
		d.last = image.NewRGBA(f.Image.Rect)
	}
	copy(d.last.Pix, f.Image.Pix)
	d.presented++
	return nil
}

// Presented returns how many frames were presented.
func (d *Driver) Presented() int {
	return d.presented
}

// Last returns the last presented frame, or nil before the first one.
func (d *Driver) Last() *image.RGBA {
	return d.last
}

// EncodePNG encodes the last presented frame.
func (d *Driver) EncodePNG() ([]byte, error) {
	if d.last == nil {
		return nil, fmt.Errorf("headless: no frame presented")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, d.last); err != nil {
		return nil, fmt.Errorf("headless: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG saves the last presented frame to path.
func (d *Driver) WritePNG(path string) error {
	data, err := d.EncodePNG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("headless: write %s: %w", path, err)
	}
	return nil
}
