// Package effect loads named effects: WGSL sources resolved through a
// [Source] and compiled to SPIR-V with naga.
//
// Loading is asynchronous. [System.LoadEffect] returns a [Future] that the
// renderer awaits the first time it needs the effect; repeated calls for the
// same name return the same future and never trigger a second load.
package effect
