// Package monitor implements the classroom noise meter: it analyzes a
// live microphone capture stream and publishes a normalized 0..100
// loudness level to subscribers on a fixed 60 Hz tick.
//
// The monitor never routes audio to the output mix; its analysis path
// is capture-only. Start failures are reported as a boolean, not an
// error, because "no microphone" is a normal outcome a classroom app
// must handle gracefully.
package monitor
