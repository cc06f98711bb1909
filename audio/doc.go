// Package audio is the engine core: one shared output stream, a master
// gain, a three-channel mixer, and the alert and background music
// players that route through it.
//
// The Engine is the single low-level audio resource for the process.
// Construct it once with New and pass it to every consumer, or use
// Shared for the process-wide instance. All gain changes ramp over a
// short fixed time constant so transitions never click.
//
// Priority between the players is expressed as ducking: while an alert
// plays, the background music gain is multiplied by the configured
// ducking factor and restored when the alert finishes.
package audio
