package core

import "time"

// FrameClock measures frame deltas and the total time since the loop started.
type FrameClock struct {
	now    func() time.Time
	start  time.Time
	last   time.Time
	delta  time.Duration
	frames uint64
}

// NewFrameClock returns a clock reading the wall time.
func NewFrameClock() *FrameClock {
	return NewFrameClockWith(time.Now)
}

// NewFrameClockWith returns a clock reading time from now.
func NewFrameClockWith(now func() time.Time) *FrameClock {
	return &FrameClock{now: now}
}

// Start resets the clock. Delta reads zero until the first Tick.
func (c *FrameClock) Start() {
	c.start = c.now()
	c.last = c.start
	c.delta = 0
	c.frames = 0
}

// Tick closes the current frame and records its duration.
func (c *FrameClock) Tick() {
	if c.start.IsZero() {
		c.Start()
	}
	t := c.now()
	c.delta = t.Sub(c.last)
	c.last = t
	c.frames++
}

// Delta returns the duration of the previous frame.
func (c *FrameClock) Delta() time.Duration {
	return c.delta
}

// Elapsed returns the time since Start.
func (c *FrameClock) Elapsed() time.Duration {
	if c.start.IsZero() {
		return 0
	}
	return c.now().Sub(c.start)
}

// Frames returns how many frames have been ticked.
func (c *FrameClock) Frames() uint64 {
	return c.frames
}
