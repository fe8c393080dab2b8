package audio

import (
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// tickDuration is the length of audio written per mixer tick.
const tickDuration = 20 * time.Millisecond

type voice struct {
	samples [][2]float64
	pos     int
}

// Player mixes sound effects and streams them to a sink.
// A Player without a sink is silent: Play and Subscribe still work but
// nothing is rendered.
type Player struct {
	out    io.Writer
	logger *log.Logger
	frames int

	cache map[Sound][][2]float64
	queue chan Sound

	// Owned by the mix goroutine once started.
	active []voice
	buf    [][2]float64
	bytes  []byte

	stop    chan struct{}
	done    chan struct{}
	stopped atomic.Bool
	started atomic.Bool
	closeFn func() error
	once    sync.Once

	played, dropped atomic.Uint64
}

// Open starts the first available playback command and returns a running
// player. Disabled audio or a missing command yields a silent player.
func Open(cfg config.Audio, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if !cfg.Enabled {
		return NewPlayer(cfg, nil, logger)
	}
	sink, err := DetectSink(cfg.SampleRate)
	if err != nil {
		logger.Info("Audio disabled", "reason", err)
		return NewPlayer(cfg, nil, logger)
	}
	p, err := startSink(sink)
	if err != nil {
		logger.Warn("Audio disabled", "sink", sink.Name, "err", err)
		return NewPlayer(cfg, nil, logger)
	}
	logger.Debug("Audio sink started", "sink", sink.Name, "rate", cfg.SampleRate)

	player := NewPlayer(cfg, p, logger)
	player.closeFn = p.Close
	player.Start()
	return player
}

// NewPlayer builds a player that writes PCM to out. The mix loop is not
// running until Start.
func NewPlayer(cfg config.Audio, out io.Writer, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	p := &Player{
		out:    out,
		logger: logger,
		frames: rate.N(tickDuration),
		queue:  make(chan Sound, 32),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if out == nil {
		return p
	}

	rng := rand.New(rand.NewSource(1))
	p.cache = make(map[Sound][][2]float64, len(Sounds))
	for _, s := range Sounds {
		p.cache[s] = Samples(Render(Cue(s), rate, cfg.Volume, rng))
	}
	p.buf = make([][2]float64, p.frames)
	p.bytes = make([]byte, p.frames*4)
	return p
}

// Silent reports whether the player has no sink.
func (p *Player) Silent() bool {
	return p.out == nil
}

// Play queues s. When the queue is full the sound is dropped.
func (p *Player) Play(s Sound) {
	if p.Silent() || p.stopped.Load() {
		return
	}
	select {
	case p.queue <- s:
	default:
		p.dropped.Add(1)
	}
}

// Start runs the mix loop until Close.
func (p *Player) Start() {
	if p.Silent() || !p.started.CompareAndSwap(false, true) {
		return
	}
	go p.loop()
}

func (p *Player) loop() {
	defer close(p.done)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if err := p.mix(); err != nil {
				p.logger.Warn("Audio sink closed", "err", err)
				p.stopped.Store(true)
				return
			}
		}
	}
}

// mix renders one tick of audio and writes it to the sink.
func (p *Player) mix() error {
	for drained := false; !drained; {
		select {
		case s := <-p.queue:
			if buf := p.cache[s]; len(buf) > 0 {
				p.active = append(p.active, voice{samples: buf})
				p.played.Add(1)
			}
		default:
			drained = true
		}
	}

	clear(p.buf)
	remaining := p.active[:0]
	for _, v := range p.active {
		n := copyMix(p.buf, v.samples[v.pos:])
		v.pos += n
		if v.pos < len(v.samples) {
			remaining = append(remaining, v)
		}
	}
	p.active = remaining

	encode(p.buf, p.bytes)
	_, err := p.out.Write(p.bytes)
	return err
}

func copyMix(dst, src [][2]float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i][0] += src[i][0]
		dst[i][1] += src[i][1]
	}
	return n
}

// Stats returns how many sounds were played and dropped.
func (p *Player) Stats() (played, dropped uint64) {
	return p.played.Load(), p.dropped.Load()
}

// Close stops the mix loop and the sink process.
func (p *Player) Close() error {
	var err error
	p.once.Do(func() {
		p.stopped.Store(true)
		close(p.stop)
		if p.started.Load() {
			<-p.done
		}
		if p.closeFn != nil {
			err = p.closeFn()
		}
	})
	return err
}

// Subscribe plays the matching effect for gameplay events.
func (p *Player) Subscribe(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(e events.Event) {
		if s, ok := soundFor(e); ok {
			p.Play(s)
		}
	})
}

func soundFor(e events.Event) (Sound, bool) {
	switch e.(type) {
	case events.PlayerJumped:
		return SoundJump, true
	case events.PlayerLanded:
		return SoundLand, true
	case events.CoinCollected:
		return SoundCoin, true
	case events.PlayerSprung:
		return SoundSpring, true
	case events.PlatformDestroyed:
		return SoundBreak, true
	case events.PowerUpCollected:
		return SoundPowerUp, true
	case events.GameOver:
		return SoundGameOver, true
	}
	return 0, false
}
