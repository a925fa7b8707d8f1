// Package enrichment builds and maintains celebrity profile documents from
// external metadata and generative text.
//
// ProcessPerson imports one person: sourced fields come from the movie
// database, missing biographical fields are backfilled by a language model,
// and everything lands in the catalog as a single document create or an
// empty-fields-only backfill. LinkFilmCredits materializes the person's
// filmography on both the person and film documents; Reconciler repairs the
// one-sided links the crash-unsafe double write can leave behind.
//
// Generative collaborators are best-effort. A failed completion degrades the
// affected field to empty instead of aborting the run, so a person document
// is created whenever the sourced metadata allows it.
package enrichment
