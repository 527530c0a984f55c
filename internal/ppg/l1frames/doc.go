// Package l1frames owns Layer 1 (Frames) of the PPG data model.
//
// Responsibilities: the per-frame channel statistics handed over by the
// camera sampler, input validation, and the bounded window of recent
// frames that the presence layer inspects.
// Key types: FrameSample, Window.
//
// Dependency rule: L1 depends on nothing above it.
package l1frames
