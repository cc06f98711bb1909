package options

import "time"

// Config holds the tunable parameters shared by every audio component.
// Players read the live values before each operation, so changes made
// through Merge take effect without restarting playback.
type Config struct {
	// MasterVolume scales all audio output, 0..1.
	MasterVolume float64
	// BackgroundMusicVolume is the default volume for music playback, 0..1.
	BackgroundMusicVolume float64
	// AlertVolume is the gain applied to every alert, 0..1.
	AlertVolume float64
	// DuckingFactor multiplies the background music gain while an alert
	// is playing, 0..1.
	DuckingFactor float64
	// FadeInDuration and FadeOutDuration describe the intended transition
	// timing. The engine uses a fixed internal ramp constant for actual
	// gain changes; these document the target smoothness for UI display.
	FadeInDuration  time.Duration
	FadeOutDuration time.Duration
	// MaxCacheSize is the maximum number of decoded buffers kept before
	// FIFO eviction, at least 1.
	MaxCacheSize int
}

// Partial carries an update for a subset of Config fields. Nil fields
// are left unchanged by Merge.
type Partial struct {
	MasterVolume          *float64
	BackgroundMusicVolume *float64
	AlertVolume           *float64
	DuckingFactor         *float64
	FadeInDuration        *time.Duration
	FadeOutDuration       *time.Duration
	MaxCacheSize          *int
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		MasterVolume:          0.7,
		BackgroundMusicVolume: 0.5,
		AlertVolume:           0.8,
		DuckingFactor:         0.2,
		FadeInDuration:        500 * time.Millisecond,
		FadeOutDuration:       500 * time.Millisecond,
		MaxCacheSize:          10,
	}
}

// Merge applies the non-nil fields of p, clamping each to its valid range.
func (c *Config) Merge(p Partial) {
	if p.MasterVolume != nil {
		c.MasterVolume = ClampVolume(*p.MasterVolume)
	}
	if p.BackgroundMusicVolume != nil {
		c.BackgroundMusicVolume = ClampVolume(*p.BackgroundMusicVolume)
	}
	if p.AlertVolume != nil {
		c.AlertVolume = ClampVolume(*p.AlertVolume)
	}
	if p.DuckingFactor != nil {
		c.DuckingFactor = ClampVolume(*p.DuckingFactor)
	}
	if p.FadeInDuration != nil {
		c.FadeInDuration = clampDuration(*p.FadeInDuration)
	}
	if p.FadeOutDuration != nil {
		c.FadeOutDuration = clampDuration(*p.FadeOutDuration)
	}
	if p.MaxCacheSize != nil {
		c.MaxCacheSize = *p.MaxCacheSize
		if c.MaxCacheSize < 1 {
			c.MaxCacheSize = 1
		}
	}
}

// ClampVolume bounds a gain value to [0, 1].
func ClampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// Float64, Int and Duration are helpers for building a Partial literal.
func Float64(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func Duration(d time.Duration) *time.Duration { return &d }
