// Package l6arrhythmia owns Layer 6 (Arrhythmia) of the PPG data model.
//
// Responsibilities: learning a fixed RR baseline at the start of a
// session, then scoring each full RR window with four independent
// variability criteria and confirming an arrhythmia only when the score
// is near maximal, consistent across windows and outside the cooldown
// and per-minute limits.
// Key types: Detector, Baseline, Status.
//
// Dependency rule: L6 may depend on L1-L5.
package l6arrhythmia
