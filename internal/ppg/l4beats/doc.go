// Package l4beats owns Layer 4 (Beats) of the PPG data model.
//
// Responsibilities: voting beat detection on the normalised pulse
// waveform, local-maximum confirmation, the refractory lock, adaptive
// thresholds and the bounded list of confirmed peaks. Every consumer
// that needs beat timing depends on Detector instead of scanning for
// local maxima itself.
// Key types: Detector, Peak, Thresholds.
//
// Dependency rule: L4 may depend on L1-L3, but never on L5-L6.
package l4beats
