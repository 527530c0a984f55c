// Package l3presence owns Layer 3 (Presence) of the PPG data model.
//
// Responsibilities: deciding whether a living finger covers the lens.
// Each frame is scored by staged gates (intensity range, red/green ratio,
// texture, temporal stability, perfusion, flatness); the resulting qualifying flag
// drives a hysteresis state machine so that single bad frames never flip
// the presence signal.
// Key types: Detector, Evaluation, State, Phase.
//
// Dependency rule: L3 may depend on L1-L2, but never on L4-L6.
package l3presence
