// Package services holds the shared error taxonomy for external
// collaborators (TMDB, LLM, image ingestion) and its classification helpers.
package services
