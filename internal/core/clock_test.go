package core

import (
	"testing"
	"time"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestFrameClock(t *testing.T) {
	src := &fakeNow{t: time.Unix(1000, 0)}
	c := NewFrameClockWith(src.now)

	if c.Elapsed() != 0 {
		t.Errorf("Elapsed() before Start = %v, expected 0", c.Elapsed())
	}

	c.Start()
	if c.Delta() != 0 {
		t.Errorf("Delta() after Start = %v, expected 0", c.Delta())
	}

	src.advance(16 * time.Millisecond)
	c.Tick()
	if c.Delta() != 16*time.Millisecond {
		t.Errorf("Delta() = %v, expected 16ms", c.Delta())
	}

	src.advance(20 * time.Millisecond)
	c.Tick()
	if c.Delta() != 20*time.Millisecond {
		t.Errorf("Delta() = %v, expected 20ms", c.Delta())
	}
	if c.Elapsed() != 36*time.Millisecond {
		t.Errorf("Elapsed() = %v, expected 36ms", c.Elapsed())
	}
	if c.Frames() != 2 {
		t.Errorf("Frames() = %d, expected 2", c.Frames())
	}
}

func TestRuntimeConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RuntimeConfig)
		wantErr bool
	}{
		{"defaults", func(*RuntimeConfig) {}, false},
		{"zero width", func(c *RuntimeConfig) { c.Width = 0 }, true},
		{"zero scale", func(c *RuntimeConfig) { c.Scale = 0 }, true},
		{"negative padding", func(c *RuntimeConfig) { c.Padding = -1 }, true},
		{"zero tick rate", func(c *RuntimeConfig) { c.TickRate = 0 }, true},
		{"background equals foreground", func(c *RuntimeConfig) { c.Palette.Background = c.Palette.Foreground }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRuntimeConfigWindowSize(t *testing.T) {
	w, h := DefaultConfig().WindowSize()
	if w != 416 || h != 288 {
		t.Errorf("WindowSize() = %dx%d, expected 416x288", w, h)
	}
}
