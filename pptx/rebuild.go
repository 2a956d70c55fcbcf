package pptx

import (
	"context"
	"strings"
	"sync"
)

// stagedRun is one run's pending rebuild value: the text to write and
// the formatting snapshot to reapply.
type stagedRun struct {
	text  string
	props RunProps
}

// rebuildParagraph rewrites one paragraph. All runs are staged first
// (translated text on success, original text on translation failure or
// for whitespace-only runs), then the original runs are destroyed and
// recreated in staged order with their snapshots reapplied. Staging
// before any mutation keeps run handles valid for the whole read phase.
func (j *Job) rebuildParagraph(ctx context.Context, p *Paragraph, sourceLang, targetLang string) error {
	runs := p.Runs()
	if len(runs) == 0 {
		return nil
	}

	paraProps := ExtractParagraphProps(p)

	staged := make([]stagedRun, len(runs))
	for i, r := range runs {
		staged[i] = stagedRun{text: r.Text(), props: ExtractRunProps(r)}
	}

	if err := j.translateStaged(ctx, staged, sourceLang, targetLang); err != nil {
		return err
	}

	// Destroy the original runs and recreate them in staged order.
	// Line breaks and paragraph properties are untouched; new runs go
	// where the old ones lived, ahead of any endParaRPr.
	p.node.removeChildren("r")
	idx := len(p.node.Children)
	for i, c := range p.node.Children {
		if c.Name.Local == "endParaRPr" {
			idx = i
			break
		}
	}
	for _, st := range staged {
		r := newRun()
		r.SetText(st.text)
		ApplyRunProps(r, st.props)
		p.node.insertChild(idx, r.node)
		idx++
	}

	ApplyParagraphProps(p, paraProps)
	return nil
}

// translateStaged fills in translated text for every staged run whose
// trimmed text is non-empty. Whitespace-only runs are never sent out. A
// failed translation keeps the original text; it never drops content.
func (j *Job) translateStaged(ctx context.Context, staged []stagedRun, sourceLang, targetLang string) error {
	if j.Concurrency > 1 {
		return j.translateStagedConcurrent(ctx, staged, sourceLang, targetLang)
	}

	for i := range staged {
		if strings.TrimSpace(staged[i].text) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := j.Translator.Translate(ctx, staged[i].text, sourceLang, targetLang)
		if err != nil {
			j.logger().Warn("translation failed, keeping original text: %v", err)
			continue
		}
		staged[i].text = out
	}
	return nil
}

// translateStagedConcurrent pipelines the independent translation calls
// of one paragraph. Results land in the staged slice by index, so the
// rebuild still applies them in original run order, and the paragraph
// is not mutated until every call has returned.
func (j *Job) translateStagedConcurrent(ctx context.Context, staged []stagedRun, sourceLang, targetLang string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sem := make(chan struct{}, j.Concurrency)
	var wg sync.WaitGroup
	for i := range staged {
		if strings.TrimSpace(staged[i].text) == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			out, err := j.Translator.Translate(ctx, staged[i].text, sourceLang, targetLang)
			if err != nil {
				j.logger().Warn("translation failed, keeping original text: %v", err)
				return
			}
			staged[i].text = out
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}
