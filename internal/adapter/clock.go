package adapter

import (
	"time"

	"github.com/sweeney/msx-joypad/internal/logic"
)

// MillisClock returns a wrapping millisecond counter that starts at zero
// at start. Conversion to uint32 truncates, so the counter wraps.
func MillisClock(start time.Time, now func() time.Time) func() logic.Millis {
	return func() logic.Millis {
		return logic.Millis(now().Sub(start).Milliseconds())
	}
}
