// Package orchestrator wires manifest validation, template loading, content
// parsing, section rendering and page assembly behind a single Generate call.
package orchestrator
