package audio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/classkit/classaudio/options"
)

// MusicState is a snapshot of the background music player for UI display.
type MusicState struct {
	IsPlaying bool
	URL       string
	Volume    float64
	StartedAt time.Time
	PausedAt  time.Time
}

// MusicPlayer manages the single looping low-priority music track. It is
// pausable, resumable, stoppable, and duckable by the alert player.
//
// Callers are expected to serialize their own play/pause/stop sequences;
// the player protects its state but does not queue concurrent requests.
type MusicPlayer struct {
	engine *Engine

	mu    sync.Mutex
	head  *playhead
	gain  *Gain
	state MusicState

	ducked     bool
	preDuck    float64
	duckFactor float64
}

func newMusicPlayer(e *Engine) *MusicPlayer {
	return &MusicPlayer{engine: e}
}

// Play stops any existing music and starts looping the track at url.
// A negative volume selects the configured BackgroundMusicVolume.
// Tracks always loop; there are no finite-duration background tracks.
func (p *MusicPlayer) Play(ctx context.Context, url string, volume float64) error {
	cfg := p.engine.Config()
	if volume < 0 {
		volume = cfg.BackgroundMusicVolume
	}
	volume = options.ClampVolume(volume)

	buf, err := p.engine.cache.Load(ctx, url)
	if err != nil {
		// Invalid URL. Log and stay (or become) cleanly stopped.
		log.Printf("background music load rejected: %v", err)
		p.Stop()
		return newError(KindLoad, "MusicPlayer.Play", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	p.gain = NewGain(buf.SampleRate, volume)
	p.head = &playhead{buf: buf, loop: true, gain: p.gain}
	p.engine.mixer.add(p.head)
	p.state = MusicState{
		IsPlaying: true,
		URL:       url,
		Volume:    volume,
		StartedAt: time.Now(),
	}
	return nil
}

// Pause halts playback from the playing state. The underlying source is
// stopped rather than paused in place; the head and gain stick around
// until Resume or Stop recreates or discards them.
func (p *MusicPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.IsPlaying || p.head == nil {
		return
	}
	p.engine.mixer.remove(p.head)
	p.state.IsPlaying = false
	p.state.PausedAt = time.Now()
}

// Resume restarts a paused track by replaying its recorded URL at its
// recorded volume. The exact playback position is lost: the track starts
// over from the beginning. Known limitation, kept on purpose until the
// product decides otherwise.
func (p *MusicPlayer) Resume(ctx context.Context) error {
	p.mu.Lock()
	url := p.state.URL
	volume := p.state.Volume
	paused := !p.state.PausedAt.IsZero() && !p.state.IsPlaying
	p.mu.Unlock()

	if !paused || url == "" {
		return nil
	}
	return p.Play(ctx, url, volume)
}

// Stop disconnects and discards the track unconditionally. Safe to call
// when already stopped.
func (p *MusicPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked clears all playback state. Callers must hold p.mu.
func (p *MusicPlayer) stopLocked() {
	if p.head != nil {
		p.engine.mixer.remove(p.head)
	}
	p.head = nil
	p.gain = nil
	p.ducked = false
	p.state = MusicState{}
}

// SetVolume adjusts the live volume, 0..1. While ducked, the new value
// becomes the level the player restores to after the alert.
func (p *MusicPlayer) SetVolume(v float64) {
	v = options.ClampVolume(v)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Volume = v
	if p.gain == nil {
		return
	}
	if p.ducked {
		p.preDuck = v
		p.gain.Set(v * p.duckFactor)
		return
	}
	p.gain.Set(v)
}

// CurrentGain reports the gain target the track is ramping toward, or 0
// when nothing is playing. Reflects ducking, unlike State().Volume.
func (p *MusicPlayer) CurrentGain() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gain == nil {
		return 0
	}
	return p.gain.Target()
}

// State returns a snapshot for UI display.
func (p *MusicPlayer) State() MusicState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// duck lowers the music gain by factor so an alert can be heard. Invoked
// only by the alert player. Alerts never nest, so a single remembered
// pre-duck level is enough.
func (p *MusicPlayer) duck(factor float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.head == nil || !p.state.IsPlaying || p.ducked {
		return
	}
	p.ducked = true
	p.duckFactor = factor
	p.preDuck = p.gain.Target()
	p.gain.Set(p.preDuck * factor)
}

// restore ramps the gain back to its pre-duck level.
func (p *MusicPlayer) restore() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ducked {
		return
	}
	p.ducked = false
	if p.head != nil && p.state.IsPlaying {
		p.gain.Set(p.preDuck)
	}
}
