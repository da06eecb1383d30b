package capture

import "sync"

// Subscription is a one-shot load-complete signal scoped to a single surface.
// Hosts call Signal from their event handler and the owner calls Unsubscribe.
// Signal must never release the listener: handlers may run under the
// emitter's lock, which release also takes.
type Subscription struct {
	done      chan struct{}
	fireOnce  sync.Once
	unsubOnce sync.Once
	release   func()
}

// NewSubscription returns a pending subscription. release deregisters the
// host-side listener and is called at most once.
func NewSubscription(release func()) *Subscription {
	return &Subscription{
		done:    make(chan struct{}),
		release: release,
	}
}

// Signal resolves the signal. Safe to call more than once.
func (s *Subscription) Signal() {
	s.fireOnce.Do(func() { close(s.done) })
}

// Done is closed once the signal fires.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe releases the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.unsubOnce.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}
