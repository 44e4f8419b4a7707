package eventbus

import "sync"

// subscription is one local subscriber's view of a fanout.
type subscription struct {
	msgs   chan []byte
	errs   chan error
	fanout *fanout
	once   sync.Once
}

func (s *subscription) Messages() <-chan []byte {
	return s.msgs
}

func (s *subscription) Errors() <-chan error {
	return s.errs
}

// fail delivers a terminal error to this subscriber. Safe to call multiple
// times; only the first delivery is observed.
func (s *subscription) fail(err error) {
	s.once.Do(func() {
		select {
		case s.errs <- err:
		default:
		}
	})
}

func (s *subscription) Close() {
	s.fanout.remove(s)
}
