package main

import (
	"fmt"
	"mixpanel-tracker/internal/tracker"
	"sync/atomic"
)

// stats считает записи по отчетам трекера.
type stats struct {
	sent         atomic.Int64
	failed       atomic.Int64
	deadLettered atomic.Int64
	invalid      atomic.Int64
}

func (s *stats) observe(report tracker.Report) {
	switch {
	case report.Success:
		s.sent.Add(int64(report.Records))
	case report.DeadLettered:
		s.deadLettered.Add(int64(report.Records))
	default:
		s.failed.Add(int64(report.Records))
	}
}

func (s *stats) String() string {
	return fmt.Sprintf("sent %d, failed %d, dead-lettered %d, invalid %d",
		s.sent.Load(), s.failed.Load(), s.deadLettered.Load(), s.invalid.Load())
}
