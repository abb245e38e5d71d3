// Package progress decouples long-running extraction from how progress is
// shown. The CLI plugs in a progress-bar implementation; everything else
// (tests, watch mode re-runs) uses the no-op reporter.
package progress

// Reporter receives progress events from an extraction pass.
type Reporter interface {
	Start(label string, total int)
	Step(n int)
	Done()
}

type noop struct{}

func (noop) Start(string, int) {}
func (noop) Step(int)          {}
func (noop) Done()             {}

// NoOp returns a reporter that ignores every event.
func NoOp() Reporter {
	return noop{}
}
