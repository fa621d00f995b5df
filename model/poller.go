package model

import "time"

// PollInterval is the gap between the completion of one checkup fetch
// and the dispatch of the next. The next poll is scheduled only after a
// response arrives, so slow responses never pile up.
const PollInterval = 5 * time.Second

// MaxPollFailures is the number of backed-off retries after a failed
// poll. Each of them waits its full delay; the poller gives up and
// surfaces a failed-poll state when the last retry also fails.
const MaxPollFailures = 5

// PollState tracks the retry budget of the checkup poller. A successful
// response resets it; each transient failure doubles the next delay.
type PollState struct {
	Failures int
}

// Delay returns how long to wait before the next poll: PollInterval
// after a success, doubling per consecutive failure (5s, 10s, 20s, ...).
func (p *PollState) Delay() time.Duration {
	d := PollInterval
	for i := 1; i < p.Failures; i++ {
		d *= 2
	}
	return d
}

// RecordFailure counts a failed poll and reports whether the poller
// still has retries left. The full delay ladder (5s through 80s) is
// waited out before the budget is exhausted.
func (p *PollState) RecordFailure() bool {
	p.Failures++
	return p.Failures <= MaxPollFailures
}

// Reset clears the failure streak after a successful response.
func (p *PollState) Reset() {
	p.Failures = 0
}
