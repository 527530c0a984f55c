// Package pipeline wires the PPG layers into a per-session processor.
//
// Responsibilities: running every frame through L1-L6 in order
// (validate, condition, store, presence, beats, rhythm, arrhythmia,
// quality), resetting beat and rate state when the finger is lost, and
// producing the per-frame HeartBeatResult, the arrhythmia status and the
// end-of-session Summary.
// Key types: Processor, Output, HeartBeatResult, Session, Summary.
//
// Dependency rule: pipeline may depend on every layer package; no layer
// package may depend on pipeline.
package pipeline
