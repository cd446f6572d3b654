package tracker

import "time"

// Report описывает одну операцию, дошедшую до транспорта.
type Report struct {
	Operation    string
	Records      int
	Success      bool
	DeadLettered bool
	Err          error
	Duration     time.Duration
}

type Listener = func(report Report)
