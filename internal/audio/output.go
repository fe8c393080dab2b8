package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// ErrNoSink is returned when no PCM playback command is installed.
var ErrNoSink = errors.New("audio: no playback command found")

// Sink describes a command that reads raw stereo s16le PCM on stdin.
type Sink struct {
	Name string
	Path string
	Args []string
}

// DetectSink finds the first available playback command.
// Order: pacat, pw-cat, aplay.
func DetectSink(rate int) (Sink, error) {
	r := strconv.Itoa(rate)
	candidates := []Sink{
		{Name: "pacat", Args: []string{"--raw", "--format=s16le", "--rate=" + r, "--channels=2", "--latency-msec=50", "--playback"}},
		{Name: "pw-cat", Args: []string{"--playback", "--format=s16", "--rate=" + r, "--channels=2", "--latency=50ms", "-"}},
		{Name: "aplay", Args: []string{"-t", "raw", "-f", "S16_LE", "-r", r, "-c", "2", "-q"}},
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c.Name); err == nil {
			c.Path = path
			return c, nil
		}
	}
	return Sink{}, ErrNoSink
}

// pipe is a running sink process.
type pipe struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func startSink(s Sink) (*pipe, error) {
	cmd := exec.Command(s.Path, s.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stdin: %w", s.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.Name, err)
	}
	return &pipe{cmd: cmd, stdin: stdin}, nil
}

func (p *pipe) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

func (p *pipe) Close() error {
	_ = p.stdin.Close()
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Killed by the closed pipe.
		return nil
	}
	return err
}

// encode converts stereo frames to interleaved int16 little-endian bytes
// with a soft knee above 0.8.
func encode(in [][2]float64, out []byte) {
	for i, f := range in {
		for ch, v := range f {
			binary.LittleEndian.PutUint16(out[i*4+ch*2:], uint16(int16(limit(v)*32767)))
		}
	}
}

func limit(v float64) float64 {
	switch {
	case v > 0.8:
		v = 0.8 + 0.2*(1-1/(1+(v-0.8)*5))
	case v < -0.8:
		v = -0.8 - 0.2*(1-1/(1+(-v-0.8)*5))
	}
	return max(-1, min(1, v))
}
