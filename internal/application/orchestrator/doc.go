// Package orchestrator implements the demo orchestration manager.
//
// The manager is the single mutation surface over the orchestration state:
//   - applies pure domain transitions atomically (play, pause, stop, ...)
//   - persists a snapshot after each transition when a store is configured
//   - publishes transition events to the event bus
//   - records metrics per action
//
// Snapshot and event failures are swallowed at this boundary: an action
// never fails because storage or the bus is unavailable.
package orchestrator
