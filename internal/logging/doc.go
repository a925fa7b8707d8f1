// Package logging wraps log/slog with the handlers and attribute helpers
// used across the service.
//
// The console handler prints "TIME LEVEL component: message key=value"
// lines; the JSON handler normalizes timestamp and level keys for log
// shippers. NewFromConfig mirrors output to faces.log under the configured
// log directory.
package logging
