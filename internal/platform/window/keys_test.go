//go:build !headless

package window

import (
	"testing"

	"github.com/vovakirdan/rc01/internal/core"
)

func TestEveryConsoleKeyIsMapped(t *testing.T) {
	for _, k := range core.Keys {
		if _, ok := keyMap[k]; !ok {
			t.Errorf("key %v has no window binding", k)
		}
	}
}
