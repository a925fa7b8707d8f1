// Package images ingests profile images from source URLs into the local
// media directory. References are content-addressed, so repeated enrichment
// of the same person does not duplicate files.
package images
