package processor

import (
	"fmt"
	"time"
)

// DefaultSimulatedDelay stands in for real extraction work.
const DefaultSimulatedDelay = 500 * time.Millisecond

// Summarizer turns a stored document into a summary string. It is the seam
// where real text extraction plugs in.
type Summarizer interface {
	Summarize(name string, content []byte) string
}

// SimulatedSummarizer waits a fixed delay and returns a templated summary.
type SimulatedSummarizer struct {
	Delay time.Duration
}

// NewSimulatedSummarizer creates a summarizer with the given delay. A negative
// delay is treated as zero.
func NewSimulatedSummarizer(delay time.Duration) *SimulatedSummarizer {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedSummarizer{Delay: delay}
}

// Summarize sleeps for s.Delay and ignores content.
func (s *SimulatedSummarizer) Summarize(name string, _ []byte) string {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	return SummaryText(name)
}

// SummaryText is the templated summary for a document name.
func SummaryText(name string) string {
	return fmt.Sprintf("Text from '%s' processed.", name)
}
