// Package replay records the inbound frame stream of a session and plays it back.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"territory-client/render"
	"territory-client/session"
)

// Header opens every recording.
type Header struct {
	ID      string    `msgpack:"id"`
	Server  string    `msgpack:"server"`
	Created time.Time `msgpack:"created"`
}

// Frame is one inbound frame and its offset from the start of the recording.
type Frame struct {
	Offset time.Duration `msgpack:"offset"`
	Data   []byte        `msgpack:"data"`
}

// Recording is a loaded stream.
type Recording struct {
	Header Header
	Frames []Frame
}

// Duration is the offset of the last frame.
func (r *Recording) Duration() time.Duration {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Offset
}

// Recorder appends frames to a msgpack stream. Record fits session.Options.Tap.
type Recorder struct {
	mu     sync.Mutex
	enc    *msgpack.Encoder
	closer io.Closer
	start  time.Time
	now    func() time.Time
	err    error
	frames int
}

// NewRecorder writes the header to w and returns a recorder appending to it.
func NewRecorder(w io.Writer, server string) (*Recorder, error) {
	r := &Recorder{enc: msgpack.NewEncoder(w), now: time.Now}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	r.start = r.now()
	h := Header{ID: uuid.NewString(), Server: server, Created: r.start.UTC()}
	if err := r.enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("write recording header: %w", err)
	}
	return r, nil
}

// Create opens path for writing and starts a recording in it.
func Create(path, server string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	r, err := NewRecorder(f, server)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Record appends one frame. The first write error sticks and is returned by Close.
func (r *Recorder) Record(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	f := Frame{Offset: r.now().Sub(r.start), Data: append([]byte(nil), raw...)}
	if err := r.enc.Encode(&f); err != nil {
		r.err = fmt.Errorf("write frame %d: %w", r.frames, err)
		return
	}
	r.frames++
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closer != nil {
		if err := r.closer.Close(); err != nil && r.err == nil {
			r.err = err
		}
		r.closer = nil
	}
	return r.err
}

// Read decodes a recording from rd.
func Read(rd io.Reader) (*Recording, error) {
	dec := msgpack.NewDecoder(rd)
	rec := &Recording{}
	if err := dec.Decode(&rec.Header); err != nil {
		return nil, fmt.Errorf("read recording header: %w", err)
	}
	for {
		var f Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return rec, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", len(rec.Frames), err)
		}
		rec.Frames = append(rec.Frames, f)
	}
}

// Load reads a recording file.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Deliverer accepts raw frames, as session.Session does.
type Deliverer interface {
	Deliver(raw []byte) bool
}

// Feed delivers the frames at their recorded pace scaled by speed. A speed of zero or less
// delivers everything at once. It stops early when the consumer refuses a frame.
func Feed(ctx context.Context, rec *Recording, d Deliverer, speed float64) error {
	start := time.Now()
	for _, f := range rec.Frames {
		if speed > 0 {
			due := start.Add(time.Duration(float64(f.Offset) / speed))
			if wait := time.Until(due); wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
		}
		if !d.Deliver(f.Data) {
			return nil
		}
	}
	return nil
}

// Result is the outcome of a headless playback.
type Result struct {
	Summary session.Summary
	Stats   session.Stats
	Ready   bool // Whether the last frame drew the world rather than the placeholder
	Last    *render.Recorder
}

// Headless applies the recording to a fresh session, drawing one frame after each
// inbound frame onto a recording canvas.
func Headless(rec *Recording, vp render.Viewport, opts session.Options) Result {
	opts.InboxSize = 1
	sess := session.NewSession(opts)
	defer sess.Stop()

	canvas := &render.Recorder{}
	ready := false
	for _, f := range rec.Frames {
		sess.Deliver(f.Data)
		sess.Pump()
		canvas.Reset()
		ready = sess.Frame(canvas, vp)
	}
	return Result{Summary: sess.Summary(), Stats: sess.Stats(), Ready: ready, Last: canvas}
}
