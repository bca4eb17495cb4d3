// Package websocket provides real-time event streaming via WebSocket.
//
// Dashboard clients connect to /api/v1/demo/ws to receive state
// transitions and narration lines as they happen.
package websocket
