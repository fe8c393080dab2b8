// Package engine provides the frame driver shared by the game: delta-time
// computation, the entity collection and the update/render passes.
// The game owns an Engine and calls it; nothing here knows about jumping.
package engine

import (
	"time"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// Frame timing limits, in seconds.
const (
	NominalDelta = 0.016 // Used when a frame delta is unusable
	MaxDelta     = 0.1   // Longer gaps are treated as stalls
)

// Entity is the capability set every simulated object implements.
type Entity interface {
	Update(dt float64)
	Render(c *Canvas)
	Bounds() core.RectF
}

// State is the lifecycle state of the driver.
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Engine drives per-frame updates over an unordered entity collection.
type Engine struct {
	state    State
	lastTime time.Time
	elapsed  float64 // Seconds of simulated time since Start
	entities []Entity
}

// New creates a stopped engine.
func New() *Engine {
	return &Engine{}
}

// Start begins a fresh run. The next Tick only records its timestamp.
func (e *Engine) Start() {
	e.state = StateRunning
	e.lastTime = time.Time{}
	e.elapsed = 0
}

// Pause suspends ticking but keeps the entities.
func (e *Engine) Pause() {
	if e.state == StateRunning {
		e.state = StatePaused
	}
}

// Resume continues a paused run. The gap spent paused is not simulated.
func (e *Engine) Resume() {
	if e.state == StatePaused {
		e.state = StateRunning
		e.lastTime = time.Time{}
	}
}

// Stop ends the run and drops every entity.
func (e *Engine) Stop() {
	e.state = StateStopped
	e.lastTime = time.Time{}
	e.entities = nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Running reports whether ticks currently produce frames.
func (e *Engine) Running() bool {
	return e.state == StateRunning
}

// Elapsed returns the seconds simulated since Start.
func (e *Engine) Elapsed() float64 {
	return e.elapsed
}

// Tick converts a frame timestamp into a delta in seconds.
// ok is false when the engine is not running or when this is the first
// frame after Start/Resume.
func (e *Engine) Tick(now time.Time) (dt float64, ok bool) {
	if e.state != StateRunning {
		return 0, false
	}
	if e.lastTime.IsZero() {
		e.lastTime = now
		return 0, false
	}

	dt = Delta(e.lastTime, now)
	e.lastTime = now
	e.elapsed += dt
	return dt, true
}

// Delta returns the seconds between two frame timestamps, substituting
// NominalDelta for non-positive gaps and stalls longer than MaxDelta.
func Delta(prev, now time.Time) float64 {
	dt := now.Sub(prev).Seconds()
	if dt <= 0 || dt > MaxDelta {
		return NominalDelta
	}
	return dt
}

// Add registers an entity. Nil entities are ignored.
func (e *Engine) Add(ent Entity) {
	if ent == nil {
		return
	}
	e.entities = append(e.entities, ent)
}

// Remove unregisters an entity. Removing an unknown entity is a no-op.
func (e *Engine) Remove(ent Entity) {
	for i, x := range e.entities {
		if x == ent {
			e.entities = append(e.entities[:i], e.entities[i+1:]...)
			return
		}
	}
}

// RemoveFunc unregisters every entity for which drop returns true.
func (e *Engine) RemoveFunc(drop func(Entity) bool) {
	kept := e.entities[:0]
	for _, x := range e.entities {
		if !drop(x) {
			kept = append(kept, x)
		}
	}
	clear(e.entities[len(kept):])
	e.entities = kept
}

// Len returns the number of registered entities.
func (e *Engine) Len() int {
	return len(e.entities)
}

// Entities returns the registered entities. The slice must not be modified.
func (e *Engine) Entities() []Entity {
	return e.entities
}

// Update advances every entity by dt seconds.
func (e *Engine) Update(dt float64) {
	for _, ent := range e.entities {
		ent.Update(dt)
	}
}

// Render draws entities onto the canvas in registration order, skipping
// those whose bounds visible rejects. A nil visible draws everything.
func (e *Engine) Render(c *Canvas, visible func(core.RectF) bool) {
	for _, ent := range e.entities {
		if visible != nil && !visible(ent.Bounds()) {
			continue
		}
		ent.Render(c)
	}
}
