// Package tool provides the assistant's callable tools: weather
// lookups, read-only SQL queries, presentation translation, and
// document retrieval. Every tool implements the langchaingo tools.Tool
// interface, taking a single string input and returning formatted text.
package tool
