// Package log provides the diagnostic sink for attribute negotiation.
//
// Every rejected request produces a diagnostic naming the offending field,
// the provider's supported value and the requested value. Diagnostics are
// delivered as Event values to a Logger supplied by the application. The
// negotiation code itself never formats or prints anything.
//
// # Basic Usage
//
// Applications configure diagnostics by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For offline analysis: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/fabneg/diag.flog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Correlation
//
// Events carry a NegotiationID. The layered orchestrator assigns a fresh ID to
// each call so that all diagnostics of one negotiation can be grouped.
//
// # File Format
//
// Diagnostic files are a stream of CBOR-encoded events with integer keys
// (.flog extension). Reader iterates them back, optionally filtered.
package log
