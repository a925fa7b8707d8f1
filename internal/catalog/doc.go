// Package catalog persists person and film documents in SQLite and exposes
// the patch operations the enrichment pipeline relies on.
//
// The two collections are independent: credits are materialized redundantly
// on both sides with no foreign keys and no cross-document transaction, the
// same consistency model as the document database the data eventually syncs
// to. BackfillPerson applies fill-only-when-empty semantics; the credit
// append helpers carry the duplicate-pair check that keeps repeated
// enrichment runs convergent.
//
// Treat this package as the single source of truth for catalog semantics;
// schema changes bump schemaVersion in schema.go.
package catalog
