// Package script embeds the Lua environment cartridges run in.
//
// A Host registers the fixed binding table, loads library sources and then
// the main source in order, and resolves the optional update entry point
// exactly once. All calls happen on the caller's goroutine.
package script

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

// EntryPoint is the global a cartridge defines to run once per frame.
const EntryPoint = "update"

// Host owns one Lua state.
type Host struct {
	L      *lua.LState
	ctx    *Context
	logger *log.Logger
	update *lua.LFunction
	loaded bool
}

// NewHost creates a Lua state with the safe standard libraries and every
// entry of Bindings registered against ctx.
func NewHost(ctx *Context, logger *log.Logger) (*Host, error) {
	if ctx == nil || ctx.Framebuffer == nil {
		return nil, errors.New("script: context needs a framebuffer")
	}
	if logger == nil {
		logger = log.Default()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	h := &Host{L: L, ctx: ctx, logger: logger}

	if err := h.openLibs(); err != nil {
		L.Close()
		return nil, err
	}
	for _, b := range Bindings {
		L.SetGlobal(b.Name, L.NewFunction(func(L *lua.LState) int {
			return b.Fn(ctx, L)
		}))
	}
	L.SetGlobal("print", L.NewFunction(h.print))
	return h, nil
}

func (h *Host) openLibs() error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := h.L.CallByParam(lua.P{
			Fn:      h.L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("script: open %q library: %w", lib.name, err)
		}
	}
	// Carts read sources only through the host.
	for _, name := range []string{"dofile", "loadfile"} {
		h.L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// print writes its arguments to the logger, tab separated.
func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	h.logger.Info(strings.Join(parts, "\t"))
	return 0
}

// Load runs every library chunk and then main, all read from fsys.
// Any failure is fatal and leaves the host unusable.
// After the last chunk the update entry point is resolved and cached.
func (h *Host) Load(fsys fs.FS, libraries []string, main string) error {
	if h.loaded {
		return errors.New("script: sources already loaded")
	}
	h.loaded = true

	chunks := append(append([]string(nil), libraries...), main)
	for _, name := range chunks {
		if err := h.runChunk(fsys, name); err != nil {
			return err
		}
	}

	switch fn := h.L.GetGlobal(EntryPoint).(type) {
	case *lua.LFunction:
		h.update = fn
	case *lua.LNilType:
		h.logger.Debug("no update function, frames only present")
	default:
		h.logger.Warn("update is not a function, ignoring", "type", fn.Type().String())
	}
	return nil
}

func (h *Host) runChunk(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return &Error{Phase: PhaseLoad, Chunk: name, Err: err}
	}
	defer f.Close()

	fn, err := h.L.Load(f, name)
	if err != nil {
		return &Error{Phase: PhaseLoad, Chunk: name, Err: err}
	}
	h.L.Push(fn)
	if err := h.L.PCall(0, lua.MultRet, nil); err != nil {
		return &Error{Phase: PhaseLoad, Chunk: name, Err: err}
	}
	h.L.SetTop(0)
	h.logger.Debug("loaded chunk", "chunk", name)
	return nil
}

// HasUpdate reports whether the cartridge defined an update function.
func (h *Host) HasUpdate() bool {
	return h.update != nil
}

// Update calls the cached entry point once. It blocks until the script
// returns and is a no-op when there is no entry point.
func (h *Host) Update() error {
	if h.update == nil {
		return nil
	}
	if err := h.L.CallByParam(lua.P{
		Fn:      h.update,
		NRet:    0,
		Protect: true,
	}); err != nil {
		return &Error{Phase: PhaseUpdate, Chunk: EntryPoint, Err: err}
	}
	return nil
}

// Close releases the Lua state.
func (h *Host) Close() {
	if h.L != nil {
		h.L.Close()
		h.L = nil
	}
}
