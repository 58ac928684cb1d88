// Package config provides 12-factor configuration management for the editor
// backend.
//
// Process configuration is loaded from environment variables with sensible
// defaults; CLI flags can override it. Editor settings (tool catalogs, crop
// ratios, import rules, export defaults) are built in and can be overlaid by
// a YAML, TOML or JSON settings file.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown timeout)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: Allowed origins
//   - Editor: Viewport, settings file and fallback font
//   - Assets: Asset root, remote base URL, timeouts and retries
//   - Storage: Document store driver and location
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	settings, err := config.LoadSettings(cfg.Editor.SettingsFile)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT, MAX_CONNECTIONS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, CORS_ORIGINS
//   - VIEWPORT_WIDTH, VIEWPORT_HEIGHT, SETTINGS_FILE, FALLBACK_FONT
//   - ASSETS_ROOT, ASSETS_BASE_URL, ASSETS_ALLOWED_HOSTS, ASSETS_TIMEOUT, ASSETS_RETRY_MAX, ASSETS_MAX_BYTES
//   - STORAGE_DRIVER, STORAGE_PATH, STORAGE_COMPRESSION
package config
