// Package assistant runs a function-calling conversation loop over an
// LLM and a set of tools. The model decides which tools to call, tool
// observations are fed back as tool messages, and the loop ends when
// the model answers in plain text or the iteration guard trips.
//
// Conversations are kept in uuid-keyed sessions so a server or REPL can
// hold many independent histories at once.
package assistant
