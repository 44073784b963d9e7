package script

import (
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/rc01/internal/core"
)

// Clock is the frame timing source exposed to scripts.
type Clock interface {
	Delta() time.Duration
	Elapsed() time.Duration
}

// Context is the host state every binding operates on.
type Context struct {
	Framebuffer *core.Framebuffer
	Input       *core.InputAdapter
	Clock       Clock
}

// Binding is one host function visible to scripts as a global.
type Binding struct {
	Name string
	Fn   func(ctx *Context, L *lua.LState) int
}

// Bindings is the fixed table registered into every script environment.
var Bindings = []Binding{
	{"Clear", bindClear},
	{"PenColor", bindPenColor},
	{"Horizontal", bindHorizontal},
	{"Vertical", bindVertical},
	{"Line", bindLine},
	{"Rectangle", bindRectangle},
	{"Circle", bindCircle},
	{"Text", bindText},
	{"Time", bindTime},
	{"Elapsed", bindElapsed},
	{"InputDown", bindInputDown},
}

// Clear([fill])
func bindClear(ctx *Context, L *lua.LState) int {
	ctx.Framebuffer.Clear(lua.LVAsBool(L.Get(1)))
	return 0
}

// PenColor(on)
func bindPenColor(ctx *Context, L *lua.LState) int {
	ctx.Framebuffer.SetPen(lua.LVAsBool(L.Get(1)))
	return 0
}

// checkCoords reads arguments from..from+len(out)-1 as coordinates.
// Values are clamped to core.MaxCoord; any NaN makes the call a no-op.
func checkCoords(L *lua.LState, from int, out ...*int) bool {
	for i, p := range out {
		v, ok := core.CoordFromFloat(float64(L.CheckNumber(from + i)))
		if !ok {
			return false
		}
		*p = v
	}
	return true
}

// checkEdges reads a position and a size and returns both clamped edges,
// so a huge size still reaches across the surface.
func checkEdges(L *lua.LState, pos, size int) (lo, hi int, ok bool) {
	p := float64(L.CheckNumber(pos))
	s := float64(L.CheckNumber(size))
	lo, ok = core.CoordFromFloat(p)
	if !ok {
		return 0, 0, false
	}
	hi, ok = core.CoordFromFloat(math.Trunc(p) + math.Trunc(s))
	return lo, hi, ok
}

// Horizontal(y)
func bindHorizontal(ctx *Context, L *lua.LState) int {
	var y int
	if checkCoords(L, 1, &y) {
		ctx.Framebuffer.HorizontalLine(y)
	}
	return 0
}

// Vertical(x)
func bindVertical(ctx *Context, L *lua.LState) int {
	var x int
	if checkCoords(L, 1, &x) {
		ctx.Framebuffer.VerticalLine(x)
	}
	return 0
}

// Line(x1, y1, x2, y2)
func bindLine(ctx *Context, L *lua.LState) int {
	var x1, y1, x2, y2 int
	if checkCoords(L, 1, &x1, &y1, &x2, &y2) {
		ctx.Framebuffer.Line(x1, y1, x2, y2)
	}
	return 0
}

// Rectangle(x, y, w, h, [fill])
func bindRectangle(ctx *Context, L *lua.LState) int {
	x0, x1, okX := checkEdges(L, 1, 3)
	y0, y1, okY := checkEdges(L, 2, 4)
	if okX && okY {
		ctx.Framebuffer.Rectangle(x0, y0, x1-x0, y1-y0, lua.LVAsBool(L.Get(5)))
	}
	return 0
}

// Circle(x, y, radius, [fill])
func bindCircle(ctx *Context, L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	r := float64(L.CheckNumber(3))
	ctx.Framebuffer.Circle(x, y, r, lua.LVAsBool(L.Get(4)))
	return 0
}

// Text(x, y, text) -> x after the last cell
func bindText(ctx *Context, L *lua.LState) int {
	var x, y int
	ok := checkCoords(L, 1, &x, &y)
	text := L.CheckString(3)
	if !ok {
		L.Push(L.Get(1))
		return 1
	}
	L.Push(lua.LNumber(ctx.Framebuffer.DrawText(x, y, text)))
	return 1
}

// Time() -> seconds taken by the previous frame
func bindTime(ctx *Context, L *lua.LState) int {
	var d time.Duration
	if ctx.Clock != nil {
		d = ctx.Clock.Delta()
	}
	L.Push(lua.LNumber(d.Seconds()))
	return 1
}

// Elapsed() -> seconds since the loop started
func bindElapsed(ctx *Context, L *lua.LState) int {
	var d time.Duration
	if ctx.Clock != nil {
		d = ctx.Clock.Elapsed()
	}
	L.Push(lua.LNumber(d.Seconds()))
	return 1
}

// InputDown(code) -> held; 0=Left 1=Right 2=Up 3=Down
func bindInputDown(ctx *Context, L *lua.LState) int {
	d, ok := core.DirectionFromCode(L.CheckInt(1))
	L.Push(lua.LBool(ok && ctx.Input.IsDirectionPressed(d)))
	return 1
}
