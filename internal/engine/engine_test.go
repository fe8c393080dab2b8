package engine

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

type stubEntity struct {
	updates  int
	lastDt   float64
	rendered int
	bounds   core.RectF
}

func (s *stubEntity) Update(dt float64) {
	s.updates++
	s.lastDt = dt
}

func (s *stubEntity) Render(c *Canvas) { s.rendered++ }

func (s *stubEntity) Bounds() core.RectF { return s.bounds }

func TestTickFirstFrameOnlyRecords(t *testing.T) {
	e := New()
	e.Start()

	t0 := time.Unix(100, 0)
	if _, ok := e.Tick(t0); ok {
		t.Fatal("first tick should not produce a frame")
	}
	dt, ok := e.Tick(t0.Add(20 * time.Millisecond))
	if !ok {
		t.Fatal("second tick should produce a frame")
	}
	if math.Abs(dt-0.02) > 1e-9 {
		t.Errorf("dt = %v, want 0.02", dt)
	}
}

func TestTickClampsUnusableDelta(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want float64
	}{
		{"normal frame", 33 * time.Millisecond, 0.033},
		{"exactly max", 100 * time.Millisecond, 0.1},
		{"stall", 250 * time.Millisecond, NominalDelta},
		{"zero", 0, NominalDelta},
		{"backwards", -5 * time.Millisecond, NominalDelta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.Start()
			t0 := time.Unix(100, 0)
			e.Tick(t0)
			dt, ok := e.Tick(t0.Add(tt.gap))
			if !ok {
				t.Fatal("expected a frame")
			}
			if math.Abs(dt-tt.want) > 1e-9 {
				t.Errorf("dt = %v, want %v", dt, tt.want)
			}
		})
	}
}

func TestPauseResume(t *testing.T) {
	e := New()
	e.Start()
	t0 := time.Unix(100, 0)
	e.Tick(t0)
	e.Tick(t0.Add(16 * time.Millisecond))

	e.Pause()
	if e.Running() {
		t.Fatal("paused engine reports running")
	}
	if _, ok := e.Tick(t0.Add(32 * time.Millisecond)); ok {
		t.Fatal("paused engine produced a frame")
	}

	e.Resume()
	// Time spent paused is not simulated.
	if _, ok := e.Tick(t0.Add(5 * time.Second)); ok {
		t.Fatal("first tick after resume should only record")
	}
	dt, ok := e.Tick(t0.Add(5*time.Second + 16*time.Millisecond))
	if !ok || math.Abs(dt-0.016) > 1e-9 {
		t.Errorf("dt = %v ok = %v", dt, ok)
	}
	if math.Abs(e.Elapsed()-0.032) > 1e-9 {
		t.Errorf("Elapsed() = %v, want 0.032", e.Elapsed())
	}
}

func TestEntities(t *testing.T) {
	e := New()
	a, b, c := &stubEntity{}, &stubEntity{}, &stubEntity{}
	e.Add(a)
	e.Add(b)
	e.Add(c)
	e.Add(nil)

	if e.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", e.Len())
	}

	e.Remove(b)
	e.Remove(b)
	e.Update(0.5)

	if a.updates != 1 || c.updates != 1 || b.updates != 0 {
		t.Errorf("updates a=%d b=%d c=%d", a.updates, b.updates, c.updates)
	}
	if a.lastDt != 0.5 {
		t.Errorf("lastDt = %v", a.lastDt)
	}

	canvas := NewCanvas(core.NewScreen(10, 10), 100, 100)
	e.Render(canvas, nil)
	if a.rendered != 1 || c.rendered != 1 {
		t.Errorf("render counts a=%d c=%d", a.rendered, c.rendered)
	}

	e.RemoveFunc(func(x Entity) bool { return x == a })
	if e.Len() != 1 || e.Entities()[0] != c {
		t.Errorf("RemoveFunc left %v", e.Entities())
	}

	e.Stop()
	if e.Len() != 0 {
		t.Errorf("Stop() kept %d entities", e.Len())
	}
}

func TestCanvasScaleAndTranslate(t *testing.T) {
	s := core.NewScreen(40, 20)
	c := NewCanvas(s, 400, 800)

	c.Point(200, 400, '@', core.ColorWhite)
	if s.Get(20, 10) != '@' {
		t.Errorf("point not at (20,10):\n%s", s.String())
	}

	s.Clear()
	c.Save()
	c.Translate(0, 400)
	c.Point(200, -200, '#', core.ColorWhite)
	c.Restore()
	if s.Get(20, 5) != '#' {
		t.Errorf("translated point not at (20,5):\n%s", s.String())
	}

	// Thin boxes still occupy a cell.
	s.Clear()
	c.FillRect(core.RectF{X: 100, Y: 0, W: 70, H: 15}, '=', core.ColorGreen)
	if s.Get(10, 0) != '=' || s.Get(16, 0) != '=' {
		t.Errorf("platform not drawn:\n%s", s.Row(0))
	}
}

func TestTimers(t *testing.T) {
	var ts Timers
	var fired []string

	ts.After(100*time.Millisecond, func() { fired = append(fired, "a") })
	b := ts.After(200*time.Millisecond, func() { fired = append(fired, "b") })
	ts.After(300*time.Millisecond, func() { fired = append(fired, "c") })

	ts.Advance(0.05)
	if len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}
	ts.Advance(0.06)
	if len(fired) != 1 || fired[0] != "a" {
		t.Fatalf("fired = %v, want [a]", fired)
	}

	b.Cancel()
	ts.Advance(1)
	if len(fired) != 2 || fired[1] != "c" {
		t.Fatalf("fired = %v, want [a c]", fired)
	}
	if ts.Len() != 0 {
		t.Errorf("Len() = %d after all fired", ts.Len())
	}
}

func TestTimersScheduleFromCallback(t *testing.T) {
	var ts Timers
	count := 0
	ts.After(0, func() {
		count++
		ts.After(0, func() { count++ })
	})

	ts.Advance(0.016)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	ts.Advance(0.016)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	ts.After(time.Second, func() { count++ })
	ts.Clear()
	ts.Advance(2)
	if count != 2 {
		t.Errorf("cleared timer fired")
	}
}

func TestRenderSkipsInvisible(t *testing.T) {
	e := New()
	near := &stubEntity{bounds: core.RectF{Y: 10, W: 5, H: 5}}
	far := &stubEntity{bounds: core.RectF{Y: 500, W: 5, H: 5}}
	e.Add(near)
	e.Add(far)

	canvas := NewCanvas(core.NewScreen(10, 10), 100, 100)
	e.Render(canvas, func(b core.RectF) bool { return b.Top() < 100 })
	if near.rendered != 1 || far.rendered != 0 {
		t.Errorf("render counts near=%d far=%d, want 1 and 0", near.rendered, far.rendered)
	}
}
