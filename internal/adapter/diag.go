package adapter

import (
	"fmt"
	"log"
	"strings"

	"github.com/sweeney/msx-joypad/internal/input"
)

// tracer logs raw snapshots. It keeps its own copy of the previous hat and
// buttons for change detection; the state machine never sees it.
type tracer struct {
	primed  bool
	hat     uint8
	buttons uint32
}

func (t *tracer) trace(desc input.Description, s input.State) {
	if !t.primed {
		t.hat, t.buttons = s.Hat, s.Buttons
		t.primed = true
	}

	var b strings.Builder
	for i := 0; i < desc.NumAxes && i < len(s.Axes); i++ {
		fmt.Fprintf(&b, "axes[%d] = %d,", i, s.Axes[i])
	}
	if desc.HasHat && s.Hat != t.hat {
		fmt.Fprintf(&b, "hat = %d,", s.Hat)
	}
	if desc.NumButtons > 0 && s.Buttons != t.buttons {
		fmt.Fprintf(&b, "buttons = %d", s.Buttons)
	}
	log.Print(b.String())

	t.hat, t.buttons = s.Hat, s.Buttons
}
