// Package main hosts the watchnext CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot recommendation and trending
// lookups, catalog artifact management, configuration scaffolding, and the
// long-running daemon that serves the HTTP API. It centralizes configuration
// resolution so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
