// Package logging provides the structured logging interface shared by the
// server, the progress observers and the application layer. Entries are
// JSON lines written by zerolog.
package logging
