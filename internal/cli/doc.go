// Package cli defines the command tree. It parses flags into an app.Config
// and maps validation outcomes onto process exit codes; all real work
// happens in the app package.
package cli
