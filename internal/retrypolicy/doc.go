// Package retrypolicy provides a small reusable bounded-retry loop.
//
// A Policy combines a maximum attempt count, a backoff schedule, and a
// predicate deciding which errors deserve another try. The enrichment
// pipeline uses it for the read-after-write wait on freshly imported film
// documents; any similar eventual-consistency wait should reuse it instead
// of hand-rolling a loop.
package retrypolicy
