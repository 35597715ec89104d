// Package rag implements Retrieval-Augmented Generation over the wiki
// knowledge base.
//
// # Architecture
//
//	question
//	     |
//	     v
//	Retriever
//	     +-- query embedding (QueryEmbedder, query task type)
//	     +-- over-fetched k-NN search (SearchIndex)
//	     +-- re-ranking: FAQ boost, recency decay, season boost
//	     |
//	     v
//	Pipeline
//	     +-- prompt rendering (preamble + "title: content" context lines)
//	     +-- answer synthesis (Generator)
//	     |
//	     v
//	Answer{Text, Context}
//
// # Re-ranking policy
//
// Raw cosine similarity is adjusted per chunk: help/FAQ chunks are boosted,
// dated FAQ chunks decay exponentially with age (half-life in days) and are
// boosted again when dated inside the current season window (on/after May 1
// of the current year). Candidates sort by adjusted score, descending, with
// the original search order as tie-break, then truncate to top-K.
//
// A malformed chunk date never fails a query: the chunk keeps its pre-date
// score and retrieval proceeds.
//
// # Thread safety
//
// Retriever and Pipeline hold no mutable state; Retrieve and Run use only
// per-request locals and are safe for concurrent use over the immutable
// index.
package rag
