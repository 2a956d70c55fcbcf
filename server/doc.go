// Package server exposes the assistant and its tools over HTTP. Tools
// are listed and invoked through uniform JSON endpoints, chat answers
// are additionally rendered to sanitized HTML, and presentation
// translation streams progress as server-sent events.
package server
