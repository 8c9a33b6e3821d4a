package comparator

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressTracker consumes pair completion events and drives a progress bar
type ProgressTracker struct {
	events    chan PairEvent
	bar       *progressbar.ProgressBar
	done      chan struct{}
	mu        sync.Mutex
	processed int
	skipped   int
}

// NewProgressTracker starts a tracker for total pairs rendering to w.
// Pass Events() as Options.Progress and call Stop after the run.
func NewProgressTracker(total int, w io.Writer) *ProgressTracker {
	p := &ProgressTracker{
		events: make(chan PairEvent, 100),
		done:   make(chan struct{}),
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Comparing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		),
	}

	go p.processEvents()

	return p
}

// Events is the channel the scheduler reports to
func (p *ProgressTracker) Events() chan<- PairEvent {
	return p.events
}

func (p *ProgressTracker) processEvents() {
	defer close(p.done)

	for event := range p.events {
		p.mu.Lock()
		p.processed++
		if event.Skipped {
			p.skipped++
		}
		p.mu.Unlock()

		p.bar.Add(1)
	}
}

// Stop closes the event channel, waits for pending events and clears the bar
func (p *ProgressTracker) Stop() {
	close(p.events)
	<-p.done
	p.bar.Finish()
}

// Counts returns how many pairs finished and how many of those were skipped
func (p *ProgressTracker) Counts() (processed, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.skipped
}
