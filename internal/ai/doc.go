// Package ai wraps the Genkit Google AI plugin behind the two narrow
// contracts the pipeline needs: embedding (document and query task types)
// and answer generation.
//
// Network and API failures propagate to the caller unchanged; no retries
// and no silent zero vectors at this boundary.
package ai
