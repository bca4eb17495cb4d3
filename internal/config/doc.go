// Package config provides configuration management for the demo
// orchestration service.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults for development use:
// in-memory persistence and events, so no Redis is required to run locally.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
