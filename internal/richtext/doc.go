// Package richtext converts Markdown into the structured-text block format
// stored on person documents.
//
// Convert is pure and deterministic: block and span keys are derived from
// document position, so re-converting the same Markdown yields byte-equal
// output. That property keeps re-enrichment idempotent when a biography is
// regenerated from identical text.
package richtext
