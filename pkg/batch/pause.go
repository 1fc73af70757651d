package batch

import (
	"context"
	"sync"
)

// PauseToken suspends a running batch at its next checkpoint. The zero value
// is ready to use and not paused.
type PauseToken struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

func (p *PauseToken) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		p.paused = true
		p.resume = make(chan struct{})
	}
}

func (p *PauseToken) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		close(p.resume)
	}
}

func (p *PauseToken) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Wait blocks while the token is paused. It returns the context's cause if
// ctx ends first.
func (p *PauseToken) Wait(ctx context.Context) error {
	for {
		p.mu.Lock()
		if !p.paused {
			p.mu.Unlock()
			return nil
		}
		ch := p.resume
		p.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}
