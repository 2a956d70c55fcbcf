package pptx

import (
	"context"
	"fmt"

	"github.com/polyglotkit/polyglot/log"
)

// Translator is the translation call boundary. Implementations return
// the translated text, or the original text together with an error when
// the provider fails; the job treats such errors as recoverable
// warnings and never drops content over them.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// ProgressFunc receives per-slide progress notifications. It is purely
// observational: a panicking callback is absorbed and logged, never
// allowed to abort a translation.
type ProgressFunc func(slideIndex, totalSlides int)

// Job translates one presentation. A Job owns its Presentation
// exclusively for the duration of Translate; it must not be shared
// across concurrent calls.
type Job struct {
	Translator Translator
	Progress   ProgressFunc
	Logger     log.Logger

	// Concurrency bounds how many of a paragraph's runs are translated
	// in flight at once. Values below 2 keep the traversal fully
	// sequential.
	Concurrency int
}

// NewJob creates a translation job around a translator.
func NewJob(translator Translator) *Job {
	return &Job{Translator: translator}
}

func (j *Job) logger() log.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return log.GetDefaultLogger()
}

// Translate parses the input buffer, replaces every translatable run
// text, and serializes the result. The structure, ordering and non-text
// formatting of the output match the input. On any structural error the
// job fails as a whole and no partial output is produced.
func (j *Job) Translate(ctx context.Context, input []byte, sourceLang, targetLang string) ([]byte, error) {
	if j.Translator == nil {
		return nil, fmt.Errorf("pptx: job has no translator")
	}

	pres, err := Open(input)
	if err != nil {
		return nil, err
	}

	slides := pres.Slides()
	total := len(slides)
	j.logger().Info("translating presentation: %d slides, %s -> %s", total, sourceLang, targetLang)

	for i, slide := range slides {
		j.reportProgress(i, total)
		j.logger().Debug("translating slide %d/%d", i+1, total)

		for _, sh := range slide.Shapes() {
			if err := j.translateShape(ctx, sh, sourceLang, targetLang); err != nil {
				return nil, fmt.Errorf("slide %d: %w", i+1, err)
			}
		}
	}
	j.reportProgress(total, total)

	out, err := pres.Save()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize translated presentation: %w", err)
	}
	return out, nil
}

func (j *Job) reportProgress(current, total int) {
	if j.Progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			j.logger().Warn("progress report failed: %v", r)
		}
	}()
	j.Progress(current, total)
}
