// Package haptics turns haptic requests into terminal bells.
package haptics

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-jumper/internal/events"
)

// bell is the BEL control character.
var bell = []byte{'\a'}

// minGap throttles consecutive bells.
const minGap = 150 * time.Millisecond

// Bell rings the terminal for heavy and error pulses. Light and success
// pulses are only logged.
type Bell struct {
	out    io.Writer
	logger *log.Logger
	clock  func() time.Time

	mu   sync.Mutex
	last time.Time
	rung int
}

// NewBell writes bells to out. A nil out only logs.
func NewBell(out io.Writer, logger *log.Logger) *Bell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bell{out: out, logger: logger, clock: time.Now}
}

// Pulse handles one haptic request.
func (b *Bell) Pulse(kind events.HapticKind) {
	b.logger.Debug("Haptic", "kind", kind)
	if b.out == nil || (kind != events.HapticHeavy && kind != events.HapticError) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock()
	if !b.last.IsZero() && now.Sub(b.last) < minGap {
		return
	}
	b.last = now
	if _, err := b.out.Write(bell); err != nil {
		b.logger.Debug("Bell write failed", "err", err)
		return
	}
	b.rung++
}

// Rung returns how many bells have been written.
func (b *Bell) Rung() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rung
}

// Subscribe pulses on every HapticTriggered event.
func (b *Bell) Subscribe(bus *events.Bus) (unsubscribe func()) {
	return events.On(bus, func(e events.HapticTriggered) { b.Pulse(e.Kind) })
}
