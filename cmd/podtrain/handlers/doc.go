// Package handlers implements the business logic of the CLI commands.
//
// Handlers load the effective configuration, wire the concrete provider,
// SSH and archive clients into the orchestration job, and return errors for
// main to report. Collaborator constructors are package-level variables so
// tests can replace them.
package handlers
