package selection

import (
	"sync"

	"github.com/rs/zerolog"
)

// Reporter receives the progress of a search. Advance may be called from
// several goroutines at once.
type Reporter interface {
	Start(task string, total int)
	Advance(n int)
	Finish()
}

type nopReporter struct{}

func (nopReporter) Start(string, int) {}
func (nopReporter) Advance(int)       {}
func (nopReporter) Finish()           {}

// NopReporter discards progress
func NopReporter() Reporter {
	return nopReporter{}
}

// LogReporter logs progress every Every completed units
type LogReporter struct {
	Every  int
	logger zerolog.Logger

	mu    sync.Mutex
	task  string
	total int
	done  int
}

func NewLogReporter(logger zerolog.Logger, every int) *LogReporter {
	if every < 1 {
		every = 1
	}
	return &LogReporter{Every: every, logger: logger}
}

func (r *LogReporter) Start(task string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.task, r.total, r.done = task, total, 0
	r.logger.Info().Str("Task", r.task).Int("Total", total).Msg("started")
}

func (r *LogReporter) Advance(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := r.done / r.Every
	r.done += n
	if r.done/r.Every > before {
		r.logger.Info().Str("Task", r.task).Int("Done", r.done).Int("Total", r.total).Msg("progress")
	}
}

func (r *LogReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Info().Str("Task", r.task).Int("Done", r.done).Int("Total", r.total).Msg("finished")
}

// Done returns the number of units reported so far
func (r *LogReporter) Done() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
