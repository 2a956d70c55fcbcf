package pptx

import (
	"context"
	"fmt"
	"strings"
)

// translateShape routes one shape into the rebuild pipeline. Groups are
// recursed into, shapes without text are skipped, and every leaf shape
// is visited exactly once in document order. Errors are not swallowed
// here: a half-translated deck with no indication is worse than an
// aborted job.
func (j *Job) translateShape(ctx context.Context, sh *Shape, sourceLang, targetLang string) error {
	if sh.IsGroup() {
		return j.translateGroup(ctx, sh, sourceLang, targetLang)
	}

	if !sh.HasTextFrame() {
		return nil
	}
	tf := sh.TextFrame()
	if strings.TrimSpace(tf.Text()) == "" {
		return nil
	}

	frameProps := ExtractTextFrameProps(tf)

	for _, para := range tf.Paragraphs() {
		if err := j.rebuildParagraph(ctx, para, sourceLang, targetLang); err != nil {
			return err
		}
	}

	// Frame properties go last so run and paragraph restoration cannot
	// clobber them with shape-level defaults.
	ApplyTextFrameProps(tf, frameProps)
	return nil
}

// translateGroup descends into a group shape's children. Nesting depth
// is unbounded; the source format guarantees the tree is acyclic.
func (j *Job) translateGroup(ctx context.Context, group *Shape, sourceLang, targetLang string) error {
	for _, child := range group.Shapes() {
		if err := j.translateShape(ctx, child, sourceLang, targetLang); err != nil {
			return fmt.Errorf("group shape: %w", err)
		}
	}
	return nil
}
