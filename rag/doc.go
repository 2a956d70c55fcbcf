// Package rag provides the retrieval pipeline behind the assistant's
// document knowledge: loaders, a semantic splitter, embedders, vector
// stores, and retrievers.
//
// A typical ingestion flow:
//
//	docs, _ := loader.NewTextLoader("report.txt").Load(ctx)
//	chunks, _ := splitter.NewSemanticSplitter(emb).SplitDocuments(ctx, docs)
//	store.Add(ctx, chunks)
//
// And at query time:
//
//	results, _ := retriever.NewVectorRetriever(store, emb).Retrieve(ctx, query)
//
// Chunking is semantic: adjacent sentences are embedded and a chunk
// boundary is placed wherever their similarity drops below a threshold,
// bounded by minimum and maximum chunk sizes, with sentence overlap
// between neighboring chunks.
package rag
