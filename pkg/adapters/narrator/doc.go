// Package narrator provides narration client implementations.
//
// The factory creates narrators based on provider configuration.
// Currently supports:
//   - Anthropic Claude
package narrator
