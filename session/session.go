package session

import (
	"context"
	"log"
	"maps"
	"sync"
	"time"

	"territory-client/network_state"
	"territory-client/protocol"
	"territory-client/render"
)

// Stats counts what the session has processed. Owned by the session goroutine; published
// as copies.
type Stats struct {
	Applied   map[string]int `json:"applied"`   // Messages applied, by kind
	Malformed int            `json:"malformed"` // Frames that failed to decode
	Ignored   int            `json:"ignored"`   // Frames of unknown kind
	Frames    int            `json:"frames"`    // Render passes drawn
	Waiting   int            `json:"waiting"`   // Render passes that drew the placeholder
}

func (st Stats) clone() Stats {
	out := st
	out.Applied = maps.Clone(st.Applied)
	return out
}

// Options wires a session to its collaborators. Every field is optional.
type Options struct {
	InboxSize int
	Notifier  Notifier
	Publish   func(Summary, Stats) // Called on the session goroutine after each applied message
	Tap       func(raw []byte)     // Sees every inbound frame before it is decoded
}

// Session owns the world model, the camera and the inbox. Only the goroutine that calls
// Pump, Frame or Run may touch State and Camera; other goroutines use Deliver and Stop.
type Session struct {
	State  *network_state.NetworkState
	Camera render.Camera

	opts     Options
	inbox    chan []byte
	stop     chan struct{}
	stopOnce sync.Once
	stats    Stats
}

func NewSession(opts Options) *Session {
	if opts.InboxSize <= 0 {
		opts.InboxSize = 256
	}
	return &Session{
		State: network_state.NewNetworkState(),
		opts:  opts,
		inbox: make(chan []byte, opts.InboxSize),
		stop:  make(chan struct{}),
		stats: Stats{Applied: map[string]int{}},
	}
}

// Deliver queues one raw inbound frame. It blocks while the inbox is full and returns
// false once the session has been stopped. Safe for any goroutine.
func (s *Session) Deliver(raw []byte) bool {
	select {
	case <-s.stop:
		return false
	default:
	}
	select {
	case s.inbox <- raw:
		return true
	case <-s.stop:
		return false
	}
}

// Alert queues a locally raised notice so it reaches the notifier on the session goroutine.
func (s *Session) Alert(msg string) bool {
	raw, err := protocol.EncodeAlert(msg)
	if err != nil {
		return false
	}
	return s.Deliver(raw)
}

// Pump applies every frame already queued and returns how many it took.
func (s *Session) Pump() int {
	n := 0
	for {
		select {
		case raw := <-s.inbox:
			s.handle(raw)
			n++
		default:
			return n
		}
	}
}

// Frame advances interpolation and paints one frame. Callers pump first so no message is
// applied mid-frame.
func (s *Session) Frame(cv render.Canvas, vp render.Viewport) bool {
	ready := render.Draw(s.State, &s.Camera, vp, cv)
	s.stats.Frames++
	if !ready {
		s.stats.Waiting++
	}
	return ready
}

// Run is the cooperative loop for hosts without their own frame callback. Each tick on
// frames pumps the inbox and calls draw. It returns nil after Stop or ctx.Err() on
// cancellation.
func (s *Session) Run(ctx context.Context, frames <-chan time.Time, draw func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case raw := <-s.inbox:
			s.handle(raw)
		case <-frames:
			s.Pump()
			if draw != nil {
				draw()
			}
		}
	}
}

// Stop ends Run and releases blocked Deliver calls. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once Stop has been called.
func (s *Session) Done() <-chan struct{} {
	return s.stop
}

func (s *Session) Summary() Summary {
	return Summarize(s.State)
}

func (s *Session) Stats() Stats {
	return s.stats.clone()
}

func (s *Session) handle(raw []byte) {
	if s.opts.Tap != nil {
		s.opts.Tap(raw)
	}
	msg, err := protocol.Decode(raw)
	if err != nil {
		s.stats.Malformed++
		log.Printf("Session: dropping malformed frame: %v", err)
		return
	}
	if !Apply(s.State, msg, s.opts.Notifier) {
		s.stats.Ignored++
		return
	}
	if msg.Kind() == protocol.MsgWelcome {
		s.Camera.Reset()
	}
	s.stats.Applied[msg.Kind()]++
	if s.opts.Publish != nil {
		s.opts.Publish(s.Summary(), s.Stats())
	}
}
