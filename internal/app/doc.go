// Package app contains the core application logic. It wires the metadata
// provider, codegen unit extraction, the dependency graph and the executor
// into the code generation and freshness verification pipelines, decoupled
// from any specific entrypoint like the cargo subcommand.
package app
