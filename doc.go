// Package polyglot is a multi-tool conversational assistant whose core
// capability is format-preserving PowerPoint translation.
//
// The repository is organized as a set of focused packages:
//
//   - pptx: lossless .pptx reading/writing and the translation job
//     driver that rebuilds text runs while snapshotting formatting.
//   - translate: the Translator boundary and an LLM-backed
//     implementation with fail-open semantics.
//   - tool: the assistant's callable tools (weather, read-only SQL,
//     knowledge base retrieval, presentation translation).
//   - rag: document loading, semantic chunking, embeddings, vector
//     stores and retrieval.
//   - assistant: the function-calling loop and session management.
//   - server: the HTTP surface (JSON tool RPC, chat, SSE translation
//     progress).
//   - cmd/polyglot: the CLI (serve, chat, translate, ingest).
//
// Start with the pptx and assistant package documentation.
package polyglot
