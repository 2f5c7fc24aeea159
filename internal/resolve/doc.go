// Package resolve implements the reference resolution pass. It visits every
// reference slot of every component exactly once per run, replacing by-ID
// string references with direct handles and registering inline component
// literals as first-class declarations.
//
// Resolution is eager and total: all broken references in a document are
// discovered in a single pass. A lookup that misses for the expected kind
// but hits under another kind is reported as InvalidReferenceKind rather
// than silently resolving to the wrong kind; a plain miss is
// UnresolvedReference.
package resolve
