// Package log provides the leveled logging interface shared by the
// polyglot packages.
//
// Two implementations are included: DefaultLogger on top of the standard
// library, and GologLogger wrapping github.com/kataras/golog for colored,
// prefixed output. A package-level default logger is available for code
// that does not want to thread a Logger through every call:
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.Info("translating %d slides", total)
//
// Components that accept a Logger (the pptx job driver, the tool server)
// fall back to the package-level default when none is provided.
package log
