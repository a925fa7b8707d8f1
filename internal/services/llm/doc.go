// Package llm provides an OpenRouter-compatible chat client for generative
// text backfill.
//
// This package is used by person enrichment for every field the metadata
// source cannot supply: country, date of birth, professions, physical
// attributes, SEO keywords, biography text, FAQs, and the deceased check.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: one terse factual answer about a subject.
// Client.CompleteJSON: send system/user prompts, receive a JSON payload.
// DecodeJSON: decode model output that may be fenced or wrapped in prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, network timeouts, and empty
// completions with exponential backoff, honouring Retry-After headers.
// Context cancellation aborts retries immediately.
//
// # Fallback
//
// Callers must treat every error as "field unavailable" and degrade to an
// empty value; enrichment never aborts a person because one field failed.
package llm
