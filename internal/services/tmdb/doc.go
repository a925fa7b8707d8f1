// Package tmdb provides the minimal TMDB API client used by person
// enrichment.
//
// It exposes person detail lookups, combined cast/crew filmographies, and
// movie detail retrieval for the film importer. Responses are strongly typed
// so the pipeline can map them without re-decoding. Options allow tests to
// supply custom HTTP clients without modifying production code.
package tmdb
