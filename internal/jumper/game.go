// Package jumper implements the endless jumper: entities, camera, world
// generation, power-ups, combos, collision effects, the game state machine
// with its payment-gated continue and shop, and the renderers.
//
// Game is pure logic driven by Step; it never touches the terminal. Backend
// and wallet calls run off the frame loop and are applied on a later Step.
package jumper

import (
	"context"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// State is the top-level game state.
type State int

const (
	StateLoading State = iota
	StateMenu
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Timing of scripted moments within a run.
const (
	startHopDelay      = 100 * time.Millisecond // First jump after the run starts
	shieldArmDelay     = 100 * time.Millisecond // Selected shield activation
	hintDuration       = 3 * time.Second
	highScoreSaveEvery = time.Second // Throttle for saves while the score climbs
	safePlatformGap    = 100         // Safe platform distance above the view bottom on continue
	spawnDrop          = 40          // Player spawns this far above a platform center
)

// HighScores persists the local best score. Implementations are best effort.
type HighScores interface {
	Load() int
	Save(score int)
}

// Runner executes a background task. The default starts a goroutine.
type Runner func(task func())

// GoRunner runs each task on its own goroutine.
func GoRunner(task func()) { go task() }

// InlineRunner runs tasks synchronously; results still wait for the next Step.
func InlineRunner(task func()) { task() }

// Options wires a Game to its collaborators. Zero values get defaults,
// except Backend and Wallet which disable sessions and payments when nil.
type Options struct {
	Config     config.JumperConfig
	Bus        *events.Bus
	Backend    backend.Service
	Wallet     chain.Wallet
	HighScores HighScores
	Logger     *log.Logger
	Clock      func() time.Time
	Runner     Runner
}

// Game is the jumper state machine.
type Game struct {
	cfg     config.JumperConfig
	bus     *events.Bus
	backend backend.Service
	wallet  chain.Wallet
	scores  HighScores
	logger  *log.Logger
	clock   func() time.Time
	runner  Runner

	// Background work
	ctx     context.Context
	cancel  context.CancelFunc
	mailbox chan func(*Game)
	done    chan struct{}
	closeMu sync.Once

	rng       *rand.Rand
	engine    *engine.Engine
	camera    *Camera
	world     *World
	player    *Player
	particles *Particles
	unsubFX   func() // Detaches particles from the bus
	powerUps  *PowerUpManager
	combo     *ComboManager

	state    State
	menu     menuState
	paused   bool
	quit     bool
	lastStep time.Time
	frames   int // Steps since Reset, drives UI animation

	uiTimers   engine.Timers // Real time, every Step
	playTimers engine.Timers // Simulation time, only while playing

	// Run bookkeeping
	runID        uint64 // Bumped per run; stale session results are dropped
	sessionID    string
	sessionTime  float64
	heightScore  int
	bonusScore   float64 // Coins and combo bonuses
	lastScore    int
	coins        int
	powerUpsUsed int
	held         *core.PowerUpKind // Inventory power-up waiting for the use key
	selected     *core.PowerUpKind // Chosen in the menu for the next run
	steerTimer   float64
	hintVisible  bool
	fell         bool
	highScore    int
	runBest      int     // High score at the start of the run
	beatAnnounce bool    // HighScoreBeaten already published this run
	unsavedBest  bool    // highScore changed since the last Save
	nextSave     float64 // Engine time before which saves are held back
	endResult    *backend.EndResult
	pendingEnd   *backend.EndStats // Run ended before its session arrived
	notice       string

	inventory core.Inventory
	invTicket uint64
	payment   paymentFlow
}

// New creates a game in the loading state. Call Reset before the first Step.
func New(opts Options) *Game {
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Runner == nil {
		opts.Runner = GoRunner
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:     opts.Config,
		bus:     opts.Bus,
		backend: opts.Backend,
		wallet:  opts.Wallet,
		scores:  opts.HighScores,
		logger:  opts.Logger,
		clock:   opts.Clock,
		runner:  opts.Runner,
		ctx:     ctx,
		cancel:  cancel,
		mailbox: make(chan func(*Game), 64),
		done:    make(chan struct{}),
		engine:  engine.New(),
		rng:     rand.New(rand.NewSource(1)),
	}
	g.powerUps = NewPowerUpManager(g.cfg.PowerUps, g.bus)
	g.combo = NewComboManager(g.cfg.Combo, g.bus)
	g.camera = NewCamera(g.cfg.Viewport.Width, g.cfg.Viewport.Height)
	return g
}

// ID returns the identifier used for score storage.
func (g *Game) ID() string {
	return "jumper"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Matcha Jump"
}

// Reset reseeds the game and returns it to the loading state.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	if g.unsubFX != nil {
		g.unsubFX()
	}
	g.particles = NewParticles(rand.New(rand.NewSource(seed + 1)))
	g.unsubFX = g.particles.Subscribe(g.bus)
	g.world = NewWorld(g.cfg.World, g.cfg.Viewport.Width, g.cfg.Viewport.Height, g.rng, g.engine, g.bus)

	g.engine.Stop()
	g.powerUps.ClearAll()
	g.combo.Reset()
	g.uiTimers.Clear()
	g.playTimers.Clear()
	g.runID++
	g.player = nil
	g.paused = false
	g.quit = false
	g.lastStep = time.Time{}
	g.frames = 0
	g.payment = paymentFlow{}
	g.menu = menuState{}
	g.state = StateLoading
	g.load()
}

// Close cancels in-flight backend work. The game must not be stepped afterwards.
func (g *Game) Close() {
	g.closeMu.Do(func() {
		if g.unsubFX != nil {
			g.unsubFX()
		}
		g.cancel()
		close(g.done)
	})
}

// Step advances the game by one platform tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	now := g.clock()
	uiDt := engine.NominalDelta
	if !g.lastStep.IsZero() {
		uiDt = engine.Delta(g.lastStep, now)
	}
	g.lastStep = now
	g.frames++

	g.drain()
	g.uiTimers.Advance(uiDt)

	switch g.state {
	case StateMenu:
		g.handleMenuInput(in)
	case StateGameOver:
		g.handleGameOverInput(in)
	case StatePlaying:
		g.handlePlayingInput(in, uiDt)
		if g.state != StatePlaying || g.paused {
			break
		}
		if dt, ok := g.engine.Tick(now); ok {
			g.update(dt)
		}
	}
	return core.StepResult{State: g.State()}
}

// State returns the summary read by the platform.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.DisplayScore(),
		GameOver: g.state == StateGameOver,
		Paused:   g.paused,
		Quit:     g.quit,
	}
}

// Phase returns the top-level state.
func (g *Game) Phase() State {
	return g.state
}

// DisplayScore is the height reached plus coin and combo points.
func (g *Game) DisplayScore() int {
	return g.heightScore + int(g.bonusScore)
}

// HighScore returns the best score known locally.
func (g *Game) HighScore() int {
	return g.highScore
}

// Inventory returns the last inventory snapshot received from the backend.
func (g *Game) Inventory() core.Inventory {
	return g.inventory
}

// startGame begins a fresh run from the bottom of a new world.
func (g *Game) startGame() {
	g.state = StatePlaying
	g.paused = false
	g.heightScore = 0
	g.bonusScore = 0
	g.lastScore = 0
	g.coins = 0
	g.powerUpsUsed = 0
	g.held = nil
	g.fell = false
	g.endResult = nil
	g.notice = ""
	g.sessionID = ""
	g.pendingEnd = nil
	g.runBest = g.highScore
	g.beatAnnounce = false
	g.nextSave = 0
	g.runID++

	g.engine.Stop()
	g.world.Reset()
	g.particles.Clear()
	g.powerUps.ClearAll()
	g.combo.Reset()
	g.playTimers.Clear()
	g.engine.Add(g.particles)

	g.world.CreateInitial()
	first := g.world.Platforms[0]
	g.player = NewPlayer(first.X, first.Y-spawnDrop, g.cfg.Physics, g.cfg.Viewport.Width, g.bus)
	g.engine.Add(g.player)
	g.playTimers.After(startHopDelay, func() { g.player.Jump(g.cfg.Physics.JumpImpulse) })

	g.camera = NewCamera(g.cfg.Viewport.Width, g.cfg.Viewport.Height)
	g.camera.Y = g.player.Y - g.cfg.Viewport.Height/2
	g.camera.Follow(g.player)
	g.world.Spawn(g.camera.Y)

	g.hintVisible = true
	g.playTimers.After(hintDuration, func() { g.hintVisible = false })

	g.sessionTime = 0
	g.steerTimer = 0
	g.engine.Start()
	g.bus.Publish(events.GameStarted{})

	selected := g.selected
	g.selected = nil
	if selected != nil && g.inventory.Count(*selected) <= 0 {
		selected = nil
	}
	g.requestSession(selected)
}

// continuePlaying resumes a finished run in place after a paid continue.
// Score and camera are kept; the world is rebuilt from a safe platform.
func (g *Game) continuePlaying() {
	g.state = StatePlaying
	g.paused = false
	g.endResult = nil
	g.fell = false
	g.held = nil
	g.sessionID = ""
	g.pendingEnd = nil
	g.runID++

	g.world.Reset()
	g.particles.Clear()
	g.powerUps.ClearAll()
	g.combo.Reset()
	g.playTimers.Clear()

	safe := g.world.SafePlatform(g.camera.Y + g.cfg.Viewport.Height - safePlatformGap)
	g.player.X, g.player.Y = safe.X, safe.Y-spawnDrop
	g.player.VX, g.player.VY = 0, 0
	g.player.Jump(g.cfg.Physics.JumpImpulse)
	g.world.Spawn(g.camera.Y)

	g.sessionTime = 0
	g.steerTimer = 0
	g.engine.Resume()
	g.bus.Publish(events.GameStarted{Continued: true})

	// The finished session was closed by EndSession; the rest of the run
	// is reported under a new one.
	g.requestSession(nil)
}

func (g *Game) gameOver() {
	g.state = StateGameOver
	g.engine.Pause()
	g.powerUps.ClearAll()
	g.combo.Reset()
	g.playTimers.Clear()
	g.player.SetDirection(0)
	g.held = nil
	g.menu.cursor = 0

	score := g.DisplayScore()
	beaten := score > g.runBest
	g.highScore = max(g.highScore, score)
	g.saveHighScore()

	g.bus.Publish(events.GameOver{Score: score, Height: g.heightScore, HighScore: beaten})
	g.bus.Publish(events.HapticTriggered{Kind: events.HapticHeavy})
	g.logger.Info("game over", "score", score, "height", g.heightScore, "coins", g.coins)

	g.endSession(backend.EndStats{
		Score:          score,
		Height:         g.heightScore,
		PowerUpsUsed:   g.powerUpsUsed,
		CoinsCollected: g.coins,
	})
}

// showMenu returns to the main menu and refreshes the inventory.
func (g *Game) showMenu() {
	g.state = StateMenu
	g.menu = menuState{}
	g.selected = nil
	g.paused = false
	g.engine.Pause()
	g.refreshInventory()
}

func (g *Game) handlePlayingInput(in core.InputFrame, uiDt float64) {
	if in.Has(core.ActionPause) {
		g.togglePause()
	}
	if g.paused {
		return
	}

	dir := 0
	if in.Has(core.ActionLeft) {
		dir--
	}
	if in.Has(core.ActionRight) {
		dir++
	}
	if dir != 0 {
		g.player.SetDirection(dir)
		g.steerTimer = g.cfg.Physics.SteerHold.Seconds()
	} else if g.steerTimer > 0 {
		g.steerTimer -= uiDt
		if g.steerTimer <= 0 {
			g.player.SetDirection(0)
		}
	}

	if in.Has(core.ActionUse) {
		g.useHeldPowerUp()
	}
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.engine.Pause()
		g.bus.Publish(events.GamePaused{})
		return
	}
	g.engine.Resume()
	g.bus.Publish(events.GameResumed{})
}

// useHeldPowerUp activates the inventory power-up waiting for the use key.
// It is refused while the same kind is already running.
func (g *Game) useHeldPowerUp() {
	if g.held == nil || g.state != StatePlaying {
		return
	}
	kind := *g.held
	if g.powerUps.IsActive(kind) {
		return
	}
	g.held = nil
	g.powerUps.Activate(Properties(kind, g.cfg.PowerUps))
	g.bus.Publish(events.PowerUpUsed{Kind: kind})
}

// update runs one simulation frame of dt real seconds.
func (g *Game) update(dt float64) {
	g.engine.Update(dt * g.powerUps.TimeScale())
	g.powerUps.Update(dt)
	g.playTimers.Advance(dt)
	g.sessionTime += dt

	g.camera.Update()
	g.combo.Update(dt)

	g.checkCollisions()
	g.world.Spawn(g.camera.Y)
	g.world.Cleanup(g.camera.Y)
	g.applyPowerUpEffects()
	g.checkFall()

	if g.checkGameOver() {
		g.gameOver()
		return
	}
	g.updateScore()
}

// updateScore latches the height score and tracks the high score.
func (g *Game) updateScore() {
	h := int(math.Max(0, math.Floor(-g.camera.Y/10)))
	if h > g.heightScore {
		g.heightScore = h
	}

	score := g.DisplayScore()
	if score != g.lastScore {
		g.lastScore = score
		g.bus.Publish(events.ScoreUpdated{Score: score})
	}
	if score > g.highScore {
		g.highScore = score
		g.unsavedBest = true
		if score > g.runBest && !g.beatAnnounce {
			g.beatAnnounce = true
			g.bus.Publish(events.HighScoreBeaten{Score: score})
		}
	}
	if g.unsavedBest && g.engine.Elapsed() >= g.nextSave {
		g.saveHighScore()
	}
}

// SaveHighScore persists the best score if it grew since the last save.
// The platform calls it when the player quits mid-run.
func (g *Game) SaveHighScore() {
	if g.unsavedBest {
		g.saveHighScore()
	}
}

func (g *Game) saveHighScore() {
	g.unsavedBest = false
	g.nextSave = g.engine.Elapsed() + highScoreSaveEvery.Seconds()
	if g.scores != nil {
		g.scores.Save(g.highScore)
	}
}
