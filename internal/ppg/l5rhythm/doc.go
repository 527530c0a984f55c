// Package l5rhythm owns Layer 5 (Rhythm) of the PPG data model.
//
// Responsibilities: converting confirmed peak times into RR intervals,
// instantaneous and smoothed BPM, the trimmed end-of-session BPM, and the
// composite 0-100 signal quality score.
// Key types: Estimator, Scorer.
//
// Dependency rule: L5 may depend on L1-L4, but never on L6.
package l5rhythm
