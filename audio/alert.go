package audio

import (
	"context"
	"sync"
	"time"
)

// AlertCallbacks notifies the caller about an alert's lifecycle. All
// fields are optional.
type AlertCallbacks struct {
	OnPlayStart func()
	OnPlayEnd   func()
	OnError     func(error)
}

// AlertPlayer plays short one-shot sounds at high priority. At most one
// alert is in flight: a new request stops and discards the previous one
// before its own playback begins. While an alert plays, background music
// is ducked; it is restored when the alert completes or is stopped.
type AlertPlayer struct {
	engine *Engine

	mu    sync.Mutex
	head  *playhead
	timer *time.Timer
	// gen invalidates the completion timer of a superseded alert so only
	// the newest alert's callbacks fire.
	gen uint64
}

func newAlertPlayer(e *Engine) *AlertPlayer {
	return &AlertPlayer{engine: e}
}

// Play loads and plays the sound at url. For a valid url it cannot
// refuse to play: load and decode failures fall back to a synthesized
// tone inside the cache. Completion is signaled by a timer armed with
// the buffer's duration; one-shot sources do not expose reliable
// completion events on every platform.
func (p *AlertPlayer) Play(ctx context.Context, url string, cb *AlertCallbacks) error {
	if cb == nil {
		cb = &AlertCallbacks{}
	}

	buf, err := p.engine.cache.Load(ctx, url)
	if err != nil {
		err = newError(KindLoad, "AlertPlayer.Play", err)
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return err
	}

	cfg := p.engine.Config()

	p.mu.Lock()
	p.stopLocked()
	gen := p.gen

	p.engine.music.duck(cfg.DuckingFactor)

	gain := NewGain(buf.SampleRate, cfg.AlertVolume)
	p.head = &playhead{buf: buf, gain: gain}
	p.engine.mixer.add(p.head)

	p.timer = time.AfterFunc(buf.Duration(), func() {
		p.finish(gen, cb)
	})
	p.mu.Unlock()

	// Fired outside the lock: a callback may call back into the player.
	if cb.OnPlayStart != nil {
		cb.OnPlayStart()
	}
	return nil
}

// finish tears down the alert's nodes and restores music, unless a newer
// alert has taken over in the meantime.
func (p *AlertPlayer) finish(gen uint64, cb *AlertCallbacks) {
	p.mu.Lock()
	if gen != p.gen || p.head == nil {
		p.mu.Unlock()
		return
	}
	p.engine.mixer.remove(p.head)
	p.head = nil
	p.timer = nil
	p.mu.Unlock()

	p.engine.music.restore()
	if cb.OnPlayEnd != nil {
		cb.OnPlayEnd()
	}
}

// Stop interrupts the current alert, if any, and restores music.
func (p *AlertPlayer) Stop() {
	p.mu.Lock()
	had := p.head != nil
	p.stopLocked()
	p.mu.Unlock()

	if had {
		p.engine.music.restore()
	}
}

// stopLocked discards the in-flight alert and invalidates its pending
// completion timer. Callers must hold p.mu.
func (p *AlertPlayer) stopLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.head != nil {
		p.engine.mixer.remove(p.head)
		p.head = nil
	}
}

// IsPlaying reports whether an alert is currently in flight.
func (p *AlertPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.head != nil
}
