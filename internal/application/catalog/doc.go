// Package catalog provides the built-in scenario catalog.
//
// The orchestration core only consumes a scenario's stage count; the
// tactic and technique identifiers in each stage plan are descriptive and
// flow through to the dashboard unmodified.
package catalog
