// Package daemon runs the long-lived recommendation service: it owns the
// loaded catalog, the metadata service, the browse session store, and the
// HTTP API, and enforces single-instance execution through a lock file.
package daemon
