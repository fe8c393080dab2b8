// Package audio synthesizes the game's sound effects with beep and plays
// them through a command-line PCM sink when one is installed.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Sound identifies one effect.
type Sound int

const (
	SoundJump Sound = iota
	SoundLand
	SoundCoin
	SoundSpring
	SoundBreak
	SoundPowerUp
	SoundGameOver
)

func (s Sound) String() string {
	switch s {
	case SoundJump:
		return "jump"
	case SoundLand:
		return "land"
	case SoundCoin:
		return "coin"
	case SoundSpring:
		return "spring"
	case SoundBreak:
		return "break"
	case SoundPowerUp:
		return "powerup"
	case SoundGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Sounds lists every effect in declaration order.
var Sounds = []Sound{SoundJump, SoundLand, SoundCoin, SoundSpring, SoundBreak, SoundPowerUp, SoundGameOver}

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WaveNoise
)

// Voice is the timbre a note is played with.
type Voice struct {
	Wave    Wave
	Attack  time.Duration
	Release time.Duration
}

// Note is one tone in a cue. Glide, when set, sweeps the pitch linearly
// from Freq to Glide over the note.
type Note struct {
	Freq  float64
	Glide float64
	At    time.Duration // Offset from the start of the cue
	Dur   time.Duration
	Gain  float64
	Voice Voice
}

var (
	pluck = Voice{Wave: WaveTriangle, Attack: 2 * time.Millisecond, Release: 40 * time.Millisecond}
	blip  = Voice{Wave: WaveSquare, Attack: time.Millisecond, Release: 20 * time.Millisecond}
	thud  = Voice{Wave: WaveSine, Attack: time.Millisecond, Release: 80 * time.Millisecond}
	sweep = Voice{Wave: WaveSaw, Attack: 5 * time.Millisecond, Release: 60 * time.Millisecond}
	crash = Voice{Wave: WaveNoise, Attack: time.Millisecond, Release: 150 * time.Millisecond}
	pad   = Voice{Wave: WaveSaw, Attack: 20 * time.Millisecond, Release: 250 * time.Millisecond}
)

// Note frequencies, Hz.
const (
	noteDs1 = 38.89
	noteC1  = 32.70
	noteG1  = 49.00
	noteC2  = 65.41
	noteEb2 = 77.78
	noteG2  = 98.00
	noteC3  = 130.81
	noteC4  = 261.63
	noteE4  = 329.63
	noteG4  = 392.00
	noteB4  = 493.88
	noteC5  = 523.25
	noteE5  = 659.25
	noteG5  = 783.99
	noteC6  = 1046.50
)

func arpeggio(v Voice, step, dur time.Duration, gain float64, freqs ...float64) []Note {
	out := make([]Note, len(freqs))
	for i, f := range freqs {
		out[i] = Note{Freq: f, At: time.Duration(i) * step, Dur: dur, Gain: gain, Voice: v}
	}
	return out
}

// cues are the notes of every effect.
var cues = map[Sound][]Note{
	SoundJump: {{Freq: noteC4, Glide: noteG4, Dur: 150 * time.Millisecond, Gain: 0.8, Voice: sweep}},
	SoundLand: {
		{Freq: noteC2, Dur: 120 * time.Millisecond, Gain: 0.7, Voice: thud},
		{Freq: noteC1, At: 10 * time.Millisecond, Dur: 120 * time.Millisecond, Gain: 0.5, Voice: thud},
	},
	SoundCoin:   arpeggio(blip, 30*time.Millisecond, 60*time.Millisecond, 0.6, noteC5, noteE5, noteG5, noteC6),
	SoundSpring: append(arpeggio(pluck, 20*time.Millisecond, 60*time.Millisecond, 0.8, noteC4, noteG4, noteC5, noteG5, noteC6), Note{Freq: 2000, Glide: 400, At: 100 * time.Millisecond, Dur: 200 * time.Millisecond, Gain: 0.3, Voice: sweep}),
	SoundBreak: {
		{Dur: 250 * time.Millisecond, Gain: 0.9, Voice: crash},
		{Freq: noteG1, Dur: 60 * time.Millisecond, Gain: 0.5, Voice: thud},
		{Freq: noteDs1, At: 20 * time.Millisecond, Dur: 60 * time.Millisecond, Gain: 0.4, Voice: thud},
	},
	SoundPowerUp: append(arpeggio(blip, 50*time.Millisecond, 120*time.Millisecond, 0.8, noteC4, noteE4, noteG4, noteB4, noteE5), Note{Freq: noteC6, At: 300 * time.Millisecond, Dur: 250 * time.Millisecond, Gain: 0.4, Voice: sweep}),
	SoundGameOver: {
		{Freq: noteC3, Dur: 400 * time.Millisecond, Gain: 0.7, Voice: pad},
		{Freq: noteG2, At: 300 * time.Millisecond, Dur: 400 * time.Millisecond, Gain: 0.6, Voice: pad},
		{Freq: noteEb2, At: 600 * time.Millisecond, Dur: 400 * time.Millisecond, Gain: 0.5, Voice: pad},
		{Freq: noteC2, At: 900 * time.Millisecond, Dur: 400 * time.Millisecond, Gain: 0.4, Voice: pad},
	},
}

// Cue returns the notes of s.
func Cue(s Sound) []Note {
	return cues[s]
}

// Render mixes the notes into one finite streamer at the given volume.
func Render(notes []Note, rate beep.SampleRate, volume float64, rng *rand.Rand) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone := newOscillator(n, rate, rng)
		shaped := newEnvelope(tone, rate.N(n.Dur), rate.N(n.Voice.Attack), rate.N(n.Voice.Release))
		parts = append(parts, beep.Seq(beep.Silence(rate.N(n.At)), withVolume(shaped, n.Gain)))
	}
	return withVolume(beep.Mix(parts...), volume)
}

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

type oscillator struct {
	freq, glide float64
	wave        Wave
	phase       float64
	pos, length int
	rate        beep.SampleRate
	rng         *rand.Rand
}

func newOscillator(n Note, rate beep.SampleRate, rng *rand.Rand) *oscillator {
	glide := n.Glide
	if glide == 0 {
		glide = n.Freq
	}
	return &oscillator{freq: n.Freq, glide: glide, wave: n.Voice.Wave, length: rate.N(n.Dur), rate: rate, rng: rng}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.pos >= o.length {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2*o.phase - 1
		case WaveTriangle:
			v = 1 - 4*math.Abs(o.phase-0.5)
		case WaveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		f := o.freq + (o.glide-o.freq)*float64(o.pos)/float64(o.length)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release over a fixed length.
type envelope struct {
	s                        beep.Streamer
	pos, total, attack, fade int
}

func newEnvelope(s beep.Streamer, total, attack, release int) *envelope {
	return &envelope{s: s, total: total, attack: attack, fade: release}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if e.attack > 0 && e.pos < e.attack {
			g = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.fade > 0 && left < e.fade {
			g = math.Min(g, float64(left)/float64(e.fade))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// Samples drains s into interleaved stereo frames.
func Samples(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}
