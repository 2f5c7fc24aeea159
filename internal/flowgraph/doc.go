// Package flowgraph validates the control and data flow of every flow in a
// document. Per flow it checks referential completeness of variables
// (consumed variables must be declared flow inputs or produced by an
// earlier step), binding completeness and type compatibility against
// invoked tools and sub-flows, and branch target resolution. Across the
// document it builds the flow-invocation graph and rejects cycles,
// reporting the full ordered cycle path.
//
// Cycle detection uses an explicit frame stack instead of call-stack
// recursion, so deeply nested or mutually recursive flow graphs fail with a
// diagnostic instead of a stack fault.
package flowgraph
