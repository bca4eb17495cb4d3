// Package autoplay implements the time-driven auto-advance collaborator.
//
// The runner is a plain caller of the orchestrator's public action surface:
// while a session is playing it advances one stage every
// baseInterval/speed, and stops the session after holding the final stage
// for one interval. The health monitor periodically logs session status.
package autoplay
