// Package connectivity reports whether the network looks usable and notifies
// subscribers when that changes.
package connectivity

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Provider is a boolean online signal with change notification.
type Provider interface {
	Online() bool
	// Subscribe registers fn for transitions and returns a function that
	// removes it. fn is not called with the current value.
	Subscribe(fn func(online bool)) (unsubscribe func())
}

var (
	_ Provider = (*Static)(nil)
	_ Provider = (*Prober)(nil)
)

// notifier holds the shared state and subscriber list.
type notifier struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]func(bool)
}

func (n *notifier) Online() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.online
}

func (n *notifier) Subscribe(fn func(online bool)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(bool))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// set stores the value and notifies outside the lock when it changed.
func (n *notifier) set(online bool) bool {
	n.mu.Lock()
	if n.online == online {
		n.mu.Unlock()
		return false
	}
	n.online = online
	subs := make([]func(bool), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
	return true
}

// Static is a manually driven Provider, used with -offline and in tests.
type Static struct {
	notifier
}

// NewStatic returns a Static provider with the given initial value.
func NewStatic(online bool) *Static {
	s := &Static{}
	s.online = online
	return s
}

// Set changes the value, notifying subscribers on a transition.
func (s *Static) Set(online bool) {
	s.set(online)
}

// Prober decides connectivity by dialing a TCP address on an interval.
type Prober struct {
	notifier
	addr     string
	interval time.Duration
	timeout  time.Duration
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)
}

const (
	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 3 * time.Second
)

// NewProber builds a Prober for addr (host:port). It starts out online, the
// same optimistic assumption a browser makes before its first offline event.
func NewProber(addr string, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	p := &Prober{
		addr:     addr,
		interval: interval,
		timeout:  defaultProbeTimeout,
	}
	p.dial = (&net.Dialer{}).DialContext
	p.online = true
	return p
}

// Start probes immediately and then on every interval until ctx is done.
// It returns immediately.
func (p *Prober) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.Probe(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Probe runs one check and returns the resulting value.
func (p *Prober) Probe(ctx context.Context) bool {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", p.addr)
	online := err == nil
	if conn != nil {
		_ = conn.Close()
	}
	if p.set(online) {
		if online {
			slog.Info("connectivity restored", slog.String("addr", p.addr))
		} else {
			slog.Warn("connectivity lost", slog.String("addr", p.addr), slog.String("error", err.Error()))
		}
	}
	return online
}
