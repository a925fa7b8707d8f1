// Command faces is the CLI for the celebrity profile enrichment pipeline.
//
// It imports person metadata from TMDB, backfills missing biographical
// fields through a language model, and links filmographies into the catalog.
// Run "faces config init" to create a configuration file, then "faces
// enrich", "faces credits", or "faces batch" to process persons.
package main
