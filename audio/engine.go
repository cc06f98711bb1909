package audio

import (
	"sync"

	"github.com/classkit/classaudio/buffer"
	"github.com/classkit/classaudio/options"
)

// SampleRate is the engine's processing rate. One engine has exactly one
// rate; everything it plays is decoded or resampled to it.
const SampleRate = 44100

// Engine owns the shared output stream, the master gain, the mixer, and
// the buffer cache. It is the one low-level audio resource the players
// multiplex; construct it once at process start and hand it to every
// consumer, or use Shared for the process-wide instance.
type Engine struct {
	mu     sync.Mutex
	cfg    *options.Config
	mixer  *Mixer
	master *Gain
	cache  *buffer.Cache
	out    OutputDevice
	alerts *AlertPlayer
	music  *MusicPlayer
	closed bool

	suspended bool
}

// New constructs an engine and starts its output device. A nil cfg uses
// the defaults; a nil out uses the portaudio output. Construction
// failure means no audio is available for the process: callers should
// degrade to silent no-ops, not crash.
func New(cfg *options.Config, out OutputDevice) (*Engine, error) {
	if cfg == nil {
		cfg = options.Default()
	}
	if out == nil {
		out = NewPortAudioOutput(SampleRate)
	}

	master := NewGain(out.SampleRate(), cfg.MasterVolume)
	e := &Engine{
		cfg:    cfg,
		master: master,
		mixer:  NewMixer(master),
		cache:  buffer.NewCache(cfg.MaxCacheSize, out.SampleRate()),
		out:    out,
	}
	e.alerts = newAlertPlayer(e)
	e.music = newMusicPlayer(e)

	if err := out.Start(e.mixer.Fill); err != nil {
		return nil, newError(KindContext, "audio.New", err)
	}
	return e, nil
}

var (
	sharedOnce sync.Once
	sharedEng  *Engine
	sharedErr  error
)

// Shared returns the process-wide engine, constructing it with the
// defaults on first call.
func Shared() (*Engine, error) {
	return SharedWith(nil, nil)
}

// SharedWith is Shared with an explicit configuration and output device.
// Both arguments are honored only on the first call; later calls return
// the existing instance regardless. A construction failure is remembered
// and returned to every caller.
func SharedWith(cfg *options.Config, out OutputDevice) (*Engine, error) {
	sharedOnce.Do(func() {
		sharedEng, sharedErr = New(cfg, out)
	})
	return sharedEng, sharedErr
}

// Mixer returns the engine's mixer. Same reference across calls.
func (e *Engine) Mixer() *Mixer { return e.mixer }

// MasterGain returns the single master output gain. Same reference
// across calls.
func (e *Engine) MasterGain() *Gain { return e.master }

// Cache returns the shared buffer cache.
func (e *Engine) Cache() *buffer.Cache { return e.cache }

// Alerts returns the high-priority one-shot player.
func (e *Engine) Alerts() *AlertPlayer { return e.alerts }

// Music returns the background music player.
func (e *Engine) Music() *MusicPlayer { return e.music }

// SetMasterVolume clamps v to [0, 1], ramps the master gain to it, and
// persists it into the configuration.
func (e *Engine) SetMasterVolume(v float64) {
	v = options.ClampVolume(v)
	e.mu.Lock()
	e.cfg.MasterVolume = v
	e.mu.Unlock()
	e.master.Set(v)
}

// SetConfig merges a partial update into the live configuration. Volume
// and cache-size changes take effect immediately; players pick up the
// rest on their next operation.
func (e *Engine) SetConfig(p options.Partial) {
	e.mu.Lock()
	e.cfg.Merge(p)
	master := e.cfg.MasterVolume
	cacheSize := e.cfg.MaxCacheSize
	e.mu.Unlock()

	if p.MasterVolume != nil {
		e.master.Set(master)
	}
	if p.MaxCacheSize != nil {
		e.cache.SetCapacity(cacheSize)
	}
}

// Config returns a snapshot of the live configuration.
func (e *Engine) Config() options.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.cfg
}

// Suspend stops the output device while keeping all playback state.
func (e *Engine) Suspend() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if e.suspended {
		return nil
	}
	e.suspended = true
	return e.out.Stop()
}

// Resume restarts a suspended output device.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if !e.suspended {
		return nil
	}
	e.suspended = false
	if err := e.out.Start(e.mixer.Fill); err != nil {
		return newError(KindContext, "Engine.Resume", err)
	}
	return nil
}

// Close stops the players and the output device. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.alerts.Stop()
	e.music.Stop()
	return e.out.Stop()
}
