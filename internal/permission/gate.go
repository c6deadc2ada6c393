// Package permission models the user's consent to post notifications.
package permission

import "sync"

type Gate struct {
	mu        sync.Mutex
	granted   bool
	listeners []func()
	onDeny    []func()
}

func NewGate(granted bool) *Gate {
	return &Gate{granted: granted}
}

func (g *Gate) Granted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted
}

// Grant records consent. Listeners run only when the gate flips from
// denied to granted, after the lock is released.
func (g *Gate) Grant() {
	g.mu.Lock()
	if g.granted {
		g.mu.Unlock()
		return
	}
	g.granted = true
	listeners := make([]func(), len(g.listeners))
	copy(listeners, g.listeners)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Deny revokes consent. Deny listeners run only when the gate flips from
// granted to denied. A later Grant fires the grant listeners again.
func (g *Gate) Deny() {
	g.mu.Lock()
	if !g.granted {
		g.mu.Unlock()
		return
	}
	g.granted = false
	listeners := make([]func(), len(g.onDeny))
	copy(listeners, g.onDeny)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnGrant registers fn to run on every denied-to-granted transition.
func (g *Gate) OnGrant(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// OnDeny registers fn to run on every granted-to-denied transition.
func (g *Gate) OnDeny(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onDeny = append(g.onDeny, fn)
}
