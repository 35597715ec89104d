// Package knowledge holds the retrievable data model for the wiki knowledge
// base: chunks, the vector index, the document store, and their snapshot
// persistence.
//
// # Alignment invariant
//
// The Chunk at position i in DocumentStore corresponds to the embedding at
// row i of VectorIndex. Both containers are append-only and must grow in
// lockstep during ingestion; reordering one without the other corrupts
// retrieval. Snapshot loading verifies the two lengths match before serving.
//
// # Concurrency
//
// VectorIndex and DocumentStore are built once by the offline ingestion job
// and treated as immutable for the lifetime of the serving process. Because
// no writer ever contends with readers after the load phase, neither type
// carries a lock; callers must keep the load-then-serve phases strictly
// sequential at startup.
package knowledge
