// Package app contains the core application logic: configuration, logger
// construction, and the load -> validate -> report lifecycle, decoupled
// from any specific entrypoint like a CLI.
package app
