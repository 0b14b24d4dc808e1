package metrics

import "time"

// Recorder receives build telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// BuildCompleted records one full build pass.
	BuildCompleted(duration time.Duration, succeeded bool)
	// PagesRendered adds to the rendered-page counter.
	PagesRendered(n int)
	// TranslationsPerformed adds to the translated-document counter.
	TranslationsPerformed(n int)
	// BrokenLinksFound adds to the broken-link counter.
	BrokenLinksFound(n int)
}

// Noop is a Recorder that discards everything; useful for one-shot builds
// and tests.
type Noop struct{}

func (Noop) BuildCompleted(time.Duration, bool) {}
func (Noop) PagesRendered(int)                  {}
func (Noop) TranslationsPerformed(int)          {}
func (Noop) BrokenLinksFound(int)               {}
