// Package diag defines the validator's diagnostic model: stable kind tags,
// subjects that point a user at the offending field, and the stage-ordered
// aggregation the pipeline relies on.
//
// Every validation stage accumulates diagnostics and continues, so one run
// surfaces the maximum number of independent problems. The final report is
// grouped by stage in a fixed order with stable intra-stage emission order,
// which makes repeated runs over the same document byte-identical.
package diag
