// Package rules applies the cross-entity consistency checks that run after
// resolution: memory attachment, specialized reference kinds, tool schema
// completeness, prompt content sources, and provider field pairings.
//
// Rules are independent: every rule runs regardless of earlier rule
// outcomes, and each returns zero or more diagnostics. A rule only
// short-circuits internally where a later check would be meaningless, such
// as inspecting the target of a reference that never resolved.
package rules
