// Package domain defines the demo orchestration state machine.
//
// The canonical State is only ever replaced through the pure transition
// functions in this package (Play, Pause, Stop, ...). Each transition is a
// total function from the current state to the next one and keeps the
// machine's invariants intact:
//   - at most one stage is active, and exactly one when stages exist
//   - a stage is completed exactly when its index is below the cursor
//   - the stage cursor is always clamped to the stage list
//   - session id and start time are set and cleared together
//
// Snapshot is the persisted subset of State. A snapshot never restores into
// a playing session.
package domain
