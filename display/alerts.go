package display

import (
	"log"
	"sync"
	"time"
)

type alert struct {
	msg     string
	expires time.Time
}

// Alerts is the floating notice stack. It implements session.Notifier.
type Alerts struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []alert
}

func NewAlerts(ttl time.Duration) *Alerts {
	return &Alerts{ttl: ttl, now: time.Now}
}

// SetClock replaces the time source, for tests.
func (a *Alerts) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

func (a *Alerts) Notify(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	log.Printf("Alert: %s", msg)
	a.items = append(a.items, alert{msg: msg, expires: a.now().Add(a.ttl)})
}

// Active drops expired notices and returns the rest, oldest first.
func (a *Alerts) Active() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	kept := a.items[:0]
	for _, it := range a.items {
		if now.Before(it.expires) {
			kept = append(kept, it)
		}
	}
	a.items = kept

	out := make([]string, len(kept))
	for i, it := range kept {
		out[i] = it.msg
	}
	return out
}
