// Package retry models the completion client's retry behavior as an
// explicit state machine so the policy is testable without a live
// network. A machine starts in Attempting; each attempt reports an
// Outcome which either terminates the machine (Succeeded, Failed) or
// moves it into Backoff until the caller resumes the next attempt.
package retry

import "time"

// State is the current position of the retry machine.
type State int

const (
	Attempting State = iota
	Backoff
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Backoff:
		return "backoff"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of one attempt.
type Outcome int

const (
	// Success terminates the machine in Succeeded.
	Success Outcome = iota
	// Retryable covers transport failures and 5xx responses.
	Retryable
	// RateLimited is a 429; an optional server hint overrides the
	// computed backoff delay.
	RateLimited
	// Fatal terminates the machine in Failed immediately (401/403 and
	// other non-retryable 4xx responses).
	Fatal
)

// Policy bounds the retry behavior.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy is three attempts with exponential backoff starting at
// 500ms, capped at 8s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
	}
}

// Machine tracks one request's retry progress. Not safe for concurrent
// use; each request owns its own machine.
type Machine struct {
	policy  Policy
	state   State
	attempt int
	delay   time.Duration
}

// NewMachine creates a machine in Attempting for its first attempt.
func NewMachine(policy Policy) *Machine {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 500 * time.Millisecond
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 8 * time.Second
	}
	return &Machine{policy: policy, state: Attempting, attempt: 1}
}

func (m *Machine) State() State { return m.state }

// Attempt is the 1-based number of the current (or last) attempt.
func (m *Machine) Attempt() int { return m.attempt }

// Delay is how long to wait before resuming. Meaningful only in Backoff.
func (m *Machine) Delay() time.Duration { return m.delay }

// Done reports whether the machine reached a terminal state.
func (m *Machine) Done() bool {
	return m.state == Succeeded || m.state == Failed
}

// Observe transitions the machine after an attempt. hint carries the
// server's retry-after delay for RateLimited outcomes; zero means no
// hint. Observing on a non-Attempting machine is a no-op.
func (m *Machine) Observe(outcome Outcome, hint time.Duration) {
	if m.state != Attempting {
		return
	}

	switch outcome {
	case Success:
		m.state = Succeeded
	case Fatal:
		m.state = Failed
	case Retryable, RateLimited:
		// The attempt ceiling is the terminal guard.
		if m.attempt >= m.policy.MaxAttempts {
			m.state = Failed
			return
		}
		m.state = Backoff
		m.delay = m.backoffDelay()
		if outcome == RateLimited && hint > 0 {
			m.delay = hint
		}
	}
}

// Resume moves a machine in Backoff into the next attempt. The caller is
// expected to have waited Delay() first.
func (m *Machine) Resume() {
	if m.state != Backoff {
		return
	}
	m.attempt++
	m.state = Attempting
}

// backoffDelay doubles the base delay per completed attempt, capped at
// the policy maximum.
func (m *Machine) backoffDelay() time.Duration {
	delay := m.policy.BaseDelay
	for i := 1; i < m.attempt; i++ {
		delay *= 2
		if delay >= m.policy.MaxDelay {
			return m.policy.MaxDelay
		}
	}
	if delay > m.policy.MaxDelay {
		delay = m.policy.MaxDelay
	}
	return delay
}
