// Package logger wraps a process-wide zap logger behind context-aware helpers.
// The level is held in an atomic level so the CLI can change it after the
// configuration is loaded, and a context may carry a named or annotated logger
// that overrides the global one for a single search, playback or download.
package logger
