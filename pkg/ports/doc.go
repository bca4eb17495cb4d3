// Package ports defines the interfaces between the orchestration core and
// its adapters: snapshot storage, the event bus, metrics and narration.
package ports
