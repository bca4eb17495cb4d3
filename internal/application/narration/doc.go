// Package narration bridges the demo event stream and the narrator.
//
// Whenever a scenario is selected or a stage changes, the service asks the
// configured narrator for one presenter line and publishes it on the
// narration topic, where the WebSocket layer relays it to the dashboard
// footer. Narration never affects orchestration state.
package narration
