// Package pptx translates the text of PowerPoint (.pptx) presentations
// while preserving their formatting.
//
// A presentation is loaded from a byte buffer, walked shape by shape
// (recursing through nested groups), and every text run is replaced
// with its translation. Formatting survives the rewrite through a
// snapshot/reapply cycle: run, paragraph and text-frame properties are
// extracted before any mutation and written back in that order after
// the runs of a paragraph have been destroyed and recreated.
//
// Failure handling is deliberately asymmetric. A failed translation or
// a color that will not reapply is absorbed at run scope, keeping the
// original content; a broken package or shape tree aborts the whole job
// with no partial output.
//
//	job := pptx.NewJob(translator)
//	out, err := job.Translate(ctx, input, "zh-TW", "en")
package pptx
