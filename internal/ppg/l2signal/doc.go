// Package l2signal owns Layer 2 (Signal) of the PPG data model.
//
// Responsibilities: turning the raw red-channel mean of each frame into a
// smoothed filtered value, then into a baseline-free, envelope-normalised
// pulse waveform and its frame-rate independent derivative for the beat
// layer.
// Key types: Conditioner, Sample, FilteredBuffer.
//
// Dependency rule: L2 may depend on L1, but never on L3-L6.
package l2signal
