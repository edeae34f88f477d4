package windowtest

import (
	"sync"
	"time"
)

// SleepRecorder is a window.Sleeper that records instead of sleeping.
type SleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (r *SleepRecorder) Sleep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, d)
}

// Calls returns every requested sleep in order.
func (r *SleepRecorder) Calls() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.calls...)
}

// Total is the sum of all requested sleeps.
func (r *SleepRecorder) Total() time.Duration {
	var sum time.Duration
	for _, d := range r.Calls() {
		sum += d
	}
	return sum
}

// KeyRecorder is a window.KeySender that records combos. OnSend, when set,
// runs after each combo so a test can emulate the desktop's reaction.
type KeyRecorder struct {
	OnSend func(combo string)

	mu     sync.Mutex
	combos []string
}

func (k *KeyRecorder) SendCombo(combo string) error {
	k.mu.Lock()
	k.combos = append(k.combos, combo)
	k.mu.Unlock()
	if k.OnSend != nil {
		k.OnSend(combo)
	}
	return nil
}

// Combos returns the combos sent so far.
func (k *KeyRecorder) Combos() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.combos...)
}
