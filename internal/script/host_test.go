package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/rc01/internal/core"
)

type fakeClock struct {
	delta   time.Duration
	elapsed time.Duration
}

func (c fakeClock) Delta() time.Duration   { return c.delta }
func (c fakeClock) Elapsed() time.Duration { return c.elapsed }

type testEnv struct {
	fb   *core.Framebuffer
	keys core.KeySet
	host *Host
	logs *bytes.Buffer
}

func newTestEnv(t *testing.T, clock Clock) *testEnv {
	t.Helper()
	env := &testEnv{
		fb:   core.NewFramebuffer(96, 64, core.DefaultPalette(), nil),
		keys: core.KeySet{},
		logs: &bytes.Buffer{},
	}
	ctx := &Context{
		Framebuffer: env.fb,
		Input:       core.NewInputAdapter(env.keys),
		Clock:       clock,
	}
	host, err := NewHost(ctx, log.New(env.logs))
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}
	t.Cleanup(host.Close)
	env.host = host
	return env
}

func (e *testEnv) load(t *testing.T, files map[string]string, libs ...string) error {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return e.host.Load(fsys, libs, "main.lua")
}

func (e *testEnv) global(name string) lua.LValue {
	return e.host.L.GetGlobal(name)
}

func TestBindingsRegistered(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, b := range Bindings {
		if _, ok := env.global(b.Name).(*lua.LFunction); !ok {
			t.Errorf("binding %q is not registered", b.Name)
		}
	}
}

func TestLibraryLoadsBeforeMain(t *testing.T) {
	env := newTestEnv(t, nil)
	err := env.load(t, map[string]string{
		"lib.lua":  `function square(n) return n * n end`,
		"main.lua": `result = square(7)`,
	}, "lib.lua")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := env.global("result"); got != lua.LNumber(49) {
		t.Errorf("result = %v, expected 49", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		libs  []string
		chunk string
	}{
		{
			name:  "missing main",
			files: map[string]string{},
			chunk: "main.lua",
		},
		{
			name:  "missing library",
			files: map[string]string{"main.lua": `x = 1`},
			libs:  []string{"lib.lua"},
			chunk: "lib.lua",
		},
		{
			name:  "syntax error",
			files: map[string]string{"main.lua": `function (`},
			chunk: "main.lua",
		},
		{
			name:  "runtime error",
			files: map[string]string{"main.lua": `error("boom")`},
			chunk: "main.lua",
		},
		{
			name:  "bad binding argument",
			files: map[string]string{"main.lua": `Line("a", 0, 1, 1)`},
			chunk: "main.lua",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			err := env.load(t, tc.files, tc.libs...)

			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("Load() error = %v, expected *Error", err)
			}
			if serr.Phase != PhaseLoad || serr.Chunk != tc.chunk {
				t.Errorf("error phase/chunk = %s/%s, expected load/%s", serr.Phase, serr.Chunk, tc.chunk)
			}
		})
	}
}

func TestLoadTwice(t *testing.T) {
	env := newTestEnv(t, nil)
	files := map[string]string{"main.lua": `x = 1`}
	if err := env.load(t, files); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := env.load(t, files); err == nil {
		t.Error("second Load() should fail")
	}
}

func TestMissingUpdateIsSkipped(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.load(t, map[string]string{"main.lua": `Clear(false)`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if env.host.HasUpdate() {
		t.Error("HasUpdate() = true, expected false")
	}
	for i := 0; i < 3; i++ {
		if err := env.host.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
}

func TestNonFunctionUpdateIsIgnored(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.load(t, map[string]string{"main.lua": `update = 42`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if env.host.HasUpdate() {
		t.Error("HasUpdate() = true for a number, expected false")
	}
}

func TestUpdateResolvedOnce(t *testing.T) {
	env := newTestEnv(t, nil)
	src := `
calls = 0
function update()
  calls = calls + 1
  update = nil
end`
	if err := env.load(t, map[string]string{"main.lua": src}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := env.host.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	if got := env.global("calls"); got != lua.LNumber(3) {
		t.Errorf("calls = %v, expected 3", got)
	}
}

func TestUpdateRuntimeError(t *testing.T) {
	env := newTestEnv(t, nil)
	src := `function update() error("frame failed") end`
	if err := env.load(t, map[string]string{"main.lua": src}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err := env.host.Update()
	var serr *Error
	if !errors.As(err, &serr) || serr.Phase != PhaseUpdate {
		t.Fatalf("Update() error = %v, expected update-phase *Error", err)
	}
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		t.Errorf("Update() error should unwrap to *lua.ApiError")
	}
	if !strings.Contains(err.Error(), "frame failed") {
		t.Errorf("Update() error = %q, expected the script message", err)
	}
}

func TestUpdateDrawsThenClears(t *testing.T) {
	env := newTestEnv(t, nil)
	src := `
function update()
  PenColor(true)
  Rectangle(10, 10, 5, 5, true)
  Clear(false)
end`
	if err := env.load(t, map[string]string{"main.lua": src}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := env.host.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if n := env.fb.Count(core.ToneForeground); n != 0 {
		t.Errorf("Count(Foreground) = %d, expected 0", n)
	}
}

func TestDrawingBindings(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected int
	}{
		{"horizontal", `Horizontal(3)`, 96},
		{"vertical", `Vertical(3)`, 64},
		{"line", `Line(0, 0, 4, 0)`, 5},
		{"rectangle outline", `Rectangle(1, 1, 4, 3)`, 10},
		{"rectangle filled", `Rectangle(1, 1, 4, 3, true)`, 12},
		{"circle zero radius", `Circle(5, 5, 0, true)`, 1},
		{"clear fill", `Clear(true)`, 96 * 64},
		{"pen off", `PenColor(false) Clear(true)`, 0},
		{"out of bounds", `Line(-50, -50, -10, -10) Horizontal(500) Circle(900, 900, 4, true)`, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			if err := env.load(t, map[string]string{"main.lua": tc.src}); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if n := env.fb.Count(core.ToneForeground); n != tc.expected {
				t.Errorf("Count(Foreground) = %d, expected %d", n, tc.expected)
			}
		})
	}
}

func TestDrawingBindingsClipHugeCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected int
	}{
		{"line to 1e19", `Line(0, 10, 1e19, 10)`, 96},
		{"line from -1e19", `Line(-1e19, 10, 95, 10)`, 96},
		{"rectangle 1e19 wide", `Rectangle(0, 0, 1e19, 10, true)`, 960},
		{"rectangle spanning the surface", `Rectangle(-1e19, 0, 1e20, 10, true)`, 960},
		{"rectangle huge outline", `Rectangle(-1e19, -1e19, 1e20, 1e20)`, 0},
		{"horizontal at 1e19", `Horizontal(1e19)`, 0},
		{"vertical at -math.huge", `Vertical(-math.huge)`, 0},
		{"circle infinite radius", `Circle(48, 32, math.huge, true)`, 96 * 64},
		{"circle 1e19 radius", `Circle(48, 32, 1e19, true)`, 96 * 64},
		{"circle infinite center", `Circle(math.huge, 32, 4, true)`, 0},
		{"nan line", `Line(0/0, 0, 10, 10)`, 0},
		{"nan rectangle", `Rectangle(0, 0, 0/0, 10, true)`, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			if err := env.load(t, map[string]string{"main.lua": tc.src}); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if n := env.fb.Count(core.ToneForeground); n != tc.expected {
				t.Errorf("Count(Foreground) = %d, expected %d", n, tc.expected)
			}
		})
	}
}

func TestTextHugeCoordinates(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.load(t, map[string]string{"main.lua": `x = Text(1e19, 0, "ab") y = Text(0/0, 0, "ab")`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := lua.LNumber(core.MaxCoord + 2*core.DefaultGlyphWidth)
	if got := env.global("x"); got != want {
		t.Errorf("Text() = %v, expected %v", got, want)
	}
	if n := env.fb.Count(core.ToneForeground); n != 0 {
		t.Errorf("Count(Foreground) = %d, expected 0", n)
	}
}

func TestTextReturnsCursor(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.load(t, map[string]string{"main.lua": `x = Text(2, 0, "hi~!")`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := env.global("x"); got != lua.LNumber(2+4*core.DefaultGlyphWidth) {
		t.Errorf("Text() = %v, expected %d", got, 2+4*core.DefaultGlyphWidth)
	}
}

func TestTimeBindings(t *testing.T) {
	env := newTestEnv(t, fakeClock{delta: 250 * time.Millisecond, elapsed: 3 * time.Second})
	if err := env.load(t, map[string]string{"main.lua": `dt = Time() total = Elapsed()`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := env.global("dt"); got != lua.LNumber(0.25) {
		t.Errorf("Time() = %v, expected 0.25", got)
	}
	if got := env.global("total"); got != lua.LNumber(3) {
		t.Errorf("Elapsed() = %v, expected 3", got)
	}
}

func TestInputDown(t *testing.T) {
	env := newTestEnv(t, nil)
	src := `
function update()
  left, right, up, down = InputDown(0), InputDown(1), InputDown(2), InputDown(3)
  bogus = InputDown(7)
end`
	if err := env.load(t, map[string]string{"main.lua": src}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	env.keys[core.KeyA] = true
	env.keys[core.KeyArrowDown] = true
	if err := env.host.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	expected := map[string]lua.LValue{
		"left":  lua.LTrue,
		"right": lua.LFalse,
		"up":    lua.LFalse,
		"down":  lua.LTrue,
		"bogus": lua.LFalse,
	}
	for name, want := range expected {
		if got := env.global(name); got != want {
			t.Errorf("%s = %v, expected %v", name, got, want)
		}
	}

	env.keys[core.KeyA] = false
	if err := env.host.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := env.global("left"); got != lua.LFalse {
		t.Errorf("left after release = %v, expected false", got)
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.load(t, map[string]string{"main.lua": `print("hello", 42)`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if out := env.logs.String(); !strings.Contains(out, "hello") || !strings.Contains(out, "42") {
		t.Errorf("log output = %q, expected the printed values", out)
	}
}

func TestSandboxedFileAccess(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.load(t, map[string]string{"main.lua": `ok = dofile == nil and loadfile == nil`}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := env.global("ok"); got != lua.LTrue {
		t.Error("dofile and loadfile should not be available")
	}
}

func TestNewHostRequiresFramebuffer(t *testing.T) {
	if _, err := NewHost(&Context{}, nil); err == nil {
		t.Error("NewHost() without a framebuffer should fail")
	}
}
