package window

import "time"

const (
	DefaultMaxAttempts = 10
	DefaultBaseDelay   = 25 * time.Millisecond
)

// RetryPolicy bounds the confirmation loop run after a mutation. The n-th
// failed check is followed by a sleep of BaseDelay*n.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the stock policy: 10 attempts starting at 25ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	return p
}

// MaxWait is the total time a confirmation loop sleeps before giving up.
func (p RetryPolicy) MaxWait() time.Duration {
	p = p.normalized()
	n := time.Duration(p.MaxAttempts)
	return p.BaseDelay * n * (n + 1) / 2
}

// Sleeper pauses the calling goroutine. time.Sleep in production.
type Sleeper func(time.Duration)

// Confirmation is the outcome of ApplyAndConfirm.
type Confirmation struct {
	Confirmed bool
	// Sleeps is how many backoff sleeps were taken.
	Sleeps int
}

// ApplyAndConfirm runs mutate exactly once, then checks the outcome.
//
// With wait=false the check runs once without sleeping. With wait=true the
// check is repeated up to policy.MaxAttempts times with linearly increasing
// sleeps, followed by one final check. Running out of attempts is not an
// error; only a failing mutate is.
func ApplyAndConfirm(mutate func() error, check func() bool, wait bool, policy RetryPolicy, sleep Sleeper) (Confirmation, error) {
	if mutate != nil {
		if err := mutate(); err != nil {
			return Confirmation{}, err
		}
	}
	return confirm(check, wait, policy, sleep), nil
}

func confirm(check func() bool, wait bool, policy RetryPolicy, sleep Sleeper) Confirmation {
	if !wait {
		return Confirmation{Confirmed: check()}
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	policy = policy.normalized()

	var c Confirmation
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if check() {
			c.Confirmed = true
			return c
		}
		sleep(policy.BaseDelay * time.Duration(attempt))
		c.Sleeps++
	}
	c.Confirmed = check()
	return c
}
