// Package journal records gameplay events as zstd-compressed JSON lines,
// one file per run.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/tui-jumper/internal/events"
)

// Ext is the file extension of run journals.
const Ext = ".jsonl.zst"

// Entry is one journal line.
type Entry struct {
	Time  time.Time       `json:"t"`
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

// Journal writes every event published during a run. A run starts at a
// fresh GameStarted and lasts until the next one; events before the first
// run are not recorded.
type Journal struct {
	dir    string
	logger *log.Logger
	clock  func() time.Time

	mu   sync.Mutex
	runs int
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer

	ch   *events.Channel
	done chan struct{}
}

// New creates a journal writing into dir.
func New(dir string, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Journal{dir: dir, logger: logger, clock: time.Now}
}

// Start records events from bus on a background goroutine until Close.
func (j *Journal) Start(bus *events.Bus) {
	j.ch = events.NewChannel(bus, 256)
	j.done = make(chan struct{})
	go j.loop()
}

func (j *Journal) loop() {
	defer close(j.done)
	for {
		select {
		case e := <-j.ch.Events():
			j.record(e)
		case <-j.ch.Done():
			for {
				select {
				case e := <-j.ch.Events():
					j.record(e)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) record(e events.Event) {
	if err := j.Write(e); err != nil {
		j.logger.Warn("Journal write failed", "err", err)
	}
}

// Write appends e to the current run, opening a new file on a fresh start.
func (j *Journal) Write(e events.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if s, ok := e.(events.GameStarted); ok && !s.Continued {
		if err := j.rotateLocked(); err != nil {
			return err
		}
	}
	if j.w == nil {
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("journal: encode %T: %w", e, err)
	}
	line, err := json.Marshal(Entry{Time: j.clock().UTC(), Type: typeName(e), Event: data})
	if err != nil {
		return fmt.Errorf("journal: encode entry: %w", err)
	}
	if _, err := j.w.Write(line); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

func (j *Journal) rotateLocked() error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	j.runs++
	name := fmt.Sprintf("run-%s-%03d%s", j.clock().UTC().Format("20060102-150405"), j.runs, Ext)
	path := filepath.Join(j.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("journal: %w", err)
	}
	j.path, j.f, j.enc, j.w = path, f, enc, bufio.NewWriter(enc)
	j.logger.Debug("Journal opened", "path", path)
	return nil
}

func (j *Journal) closeLocked() error {
	if j.f == nil {
		return nil
	}
	var firstErr error
	if err := j.w.Flush(); err != nil {
		firstErr = err
	}
	if err := j.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := j.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	j.f, j.enc, j.w = nil, nil, nil
	return firstErr
}

// Path returns the file of the current run, or "" before the first run.
func (j *Journal) Path() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.path
}

// Close stops recording and finishes the current file.
func (j *Journal) Close() error {
	if j.ch != nil {
		j.ch.Close()
		<-j.done
		j.ch = nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

// Runs lists the journals in dir, oldest first.
func Runs(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "run-*"+Ext))
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	// Names start with a UTC timestamp, so lexical order is chronological.
	sort.Strings(paths)
	return paths, nil
}

// Read decodes a run journal.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("journal: line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

func typeName(e events.Event) string {
	name := fmt.Sprintf("%T", e)
	return name[strings.LastIndexByte(name, '.')+1:]
}
