package script

import "fmt"

// Phase tells when a script error happened.
type Phase string

const (
	PhaseLoad   Phase = "load"
	PhaseUpdate Phase = "update"
)

// Error is a fatal script failure. Err is usually a *lua.ApiError.
type Error struct {
	Phase Phase
	Chunk string // Source file, or "update" for per-frame calls
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script: %s %s: %v", e.Phase, e.Chunk, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
