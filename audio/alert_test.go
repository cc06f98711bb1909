package audio

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"
)

// Alert clips in these tests are 50 ms long; waits are padded well past
// that so the completion timer has room to fire.
const testClip = 0.050

func TestAlertPlayer_PlaysAndCompletes(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	root := t.TempDir()
	writeWAV(t, root, "chime.wav", testClip, 440)
	engine.Cache().SetSoundRoot(root)

	var started, ended atomic.Int32
	err := engine.Alerts().Play(context.Background(), "/sounds/chime.wav", &AlertCallbacks{
		OnPlayStart: func() { started.Add(1) },
		OnPlayEnd:   func() { ended.Add(1) },
	})
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if started.Load() != 1 {
		t.Errorf("OnPlayStart fired %d times, want 1", started.Load())
	}
	if !engine.Alerts().IsPlaying() {
		t.Error("IsPlaying() = false right after Play()")
	}

	time.Sleep(300 * time.Millisecond)
	if ended.Load() != 1 {
		t.Errorf("OnPlayEnd fired %d times, want 1", ended.Load())
	}
	if engine.Alerts().IsPlaying() {
		t.Error("IsPlaying() = true after completion")
	}
	if got := engine.Mixer().ActiveHeads(); got != 0 {
		t.Errorf("ActiveHeads() = %d after completion, want 0", got)
	}
}

func TestAlertPlayer_AtMostOne(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	root := t.TempDir()
	writeWAV(t, root, "a.wav", testClip, 440)
	writeWAV(t, root, "b.wav", testClip, 880)
	engine.Cache().SetSoundRoot(root)

	var aEnded, bEnded atomic.Int32
	ctx := context.Background()
	if err := engine.Alerts().Play(ctx, "/sounds/a.wav", &AlertCallbacks{
		OnPlayEnd: func() { aEnded.Add(1) },
	}); err != nil {
		t.Fatalf("Play(a) failed: %v", err)
	}
	if err := engine.Alerts().Play(ctx, "/sounds/b.wav", &AlertCallbacks{
		OnPlayEnd: func() { bEnded.Add(1) },
	}); err != nil {
		t.Fatalf("Play(b) failed: %v", err)
	}

	if got := engine.Mixer().ActiveHeads(); got != 1 {
		t.Errorf("ActiveHeads() = %d with two Play calls, want 1", got)
	}

	time.Sleep(300 * time.Millisecond)
	if aEnded.Load() != 0 {
		t.Errorf("superseded alert's OnPlayEnd fired %d times, want 0", aEnded.Load())
	}
	if bEnded.Load() != 1 {
		t.Errorf("newest alert's OnPlayEnd fired %d times, want 1", bEnded.Load())
	}
}

func TestAlertPlayer_InvalidURLReportsError(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)

	var reported atomic.Int32
	err := engine.Alerts().Play(context.Background(), "not-a-url", &AlertCallbacks{
		OnError: func(err error) { reported.Add(1) },
	})
	if err == nil {
		t.Fatal("Play() with invalid URL succeeded, want error")
	}
	if KindOf(err) != KindLoad {
		t.Errorf("KindOf(err) = %q, want %q", KindOf(err), KindLoad)
	}
	if reported.Load() != 1 {
		t.Errorf("OnError fired %d times, want 1", reported.Load())
	}
}

func TestAlertPlayer_MissingFilePlaysFallbackTone(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	engine.Cache().SetSoundRoot(t.TempDir())

	var started atomic.Int32
	err := engine.Alerts().Play(context.Background(), "/sounds/ghost.wav", &AlertCallbacks{
		OnPlayStart: func() { started.Add(1) },
	})
	if err != nil {
		t.Fatalf("Play() failed for missing file, want fallback tone: %v", err)
	}
	if started.Load() != 1 {
		t.Errorf("OnPlayStart fired %d times, want 1", started.Load())
	}
	if got := engine.Mixer().ActiveHeads(); got != 1 {
		t.Errorf("ActiveHeads() = %d, want 1 (fallback tone playing)", got)
	}
}

func TestAlertPlayer_DuckingRoundTrip(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	root := t.TempDir()
	writeWAV(t, root, "music.wav", 0.2, 220)
	writeWAV(t, root, "classic/timer-end.wav", testClip, 880)
	engine.Cache().SetSoundRoot(root)
	engine.SetMasterVolume(0.5)

	ctx := context.Background()
	if err := engine.Music().Play(ctx, "/sounds/music.wav", 1.0); err != nil {
		t.Fatalf("Music().Play failed: %v", err)
	}

	done := make(chan struct{})
	if err := engine.Alerts().Play(ctx, "/sounds/classic/timer-end.wav", &AlertCallbacks{
		OnPlayEnd: func() { close(done) },
	}); err != nil {
		t.Fatalf("Alerts().Play failed: %v", err)
	}

	// During the alert the music target dips to volume x duckingFactor.
	if got, want := engine.Music().CurrentGain(), 1.0*0.2; math.Abs(got-want) > 1e-9 {
		t.Errorf("music gain during alert = %v, want %v", got, want)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("alert never completed")
	}

	if got := engine.Music().CurrentGain(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("music gain after alert = %v, want 1.0", got)
	}
}

func TestAlertPlayer_StopRestoresMusic(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	root := t.TempDir()
	writeWAV(t, root, "music.wav", 0.2, 220)
	writeWAV(t, root, "alert.wav", 1.0, 880)
	engine.Cache().SetSoundRoot(root)

	ctx := context.Background()
	if err := engine.Music().Play(ctx, "/sounds/music.wav", 0.8); err != nil {
		t.Fatalf("Music().Play failed: %v", err)
	}
	if err := engine.Alerts().Play(ctx, "/sounds/alert.wav", nil); err != nil {
		t.Fatalf("Alerts().Play failed: %v", err)
	}
	engine.Alerts().Stop()

	if engine.Alerts().IsPlaying() {
		t.Error("IsPlaying() = true after Stop()")
	}
	if got := engine.Music().CurrentGain(); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("music gain after alert Stop = %v, want 0.8", got)
	}
}

func TestAlertPlayer_StartCallbackMayUsePlayer(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	root := t.TempDir()
	writeWAV(t, root, "chime.wav", testClip, 440)
	engine.Cache().SetSoundRoot(root)

	// A UI handler reacting to OnPlayStart is allowed to call the
	// player's public methods; that must not block on the play path.
	var sawPlaying atomic.Bool
	err := engine.Alerts().Play(context.Background(), "/sounds/chime.wav", &AlertCallbacks{
		OnPlayStart: func() { sawPlaying.Store(engine.Alerts().IsPlaying()) },
	})
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if !sawPlaying.Load() {
		t.Error("IsPlaying() = false inside OnPlayStart, want true")
	}

	// Stopping from inside the callback must work too.
	if err := engine.Alerts().Play(context.Background(), "/sounds/chime.wav", &AlertCallbacks{
		OnPlayStart: func() { engine.Alerts().Stop() },
	}); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if engine.Alerts().IsPlaying() {
		t.Error("IsPlaying() = true after OnPlayStart stopped the alert")
	}
}
