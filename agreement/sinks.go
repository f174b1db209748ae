package agreement

import (
	"sync"

	logger "github.com/sirupsen/logrus"
)

// LogSink writes every event to the shared logrus logger.
type LogSink struct{}

func (s *LogSink) Publish(ev Event) {
	logger.WithFields(logger.Fields{
		"event": ev.Name(),
	}).Infof("%v", ev)
}

// Recorder keeps events in arrival order. Testing facility, also backing
// the reporter's recent-events route.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a snapshot copy.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Last returns the most recent event or nil.
func (r *Recorder) Last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}
