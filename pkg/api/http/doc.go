// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Demo session control (play, pause, stop, speed, stage, scenario)
//   - Orchestration state queries
//   - The scenario catalog
//   - Health checks
//   - Prometheus metrics
package http
