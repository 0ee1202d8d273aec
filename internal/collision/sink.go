package collision

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives detected collisions.
type Sink interface {
	Collision(Event)
}

type NopSink struct{}

func (NopSink) Collision(Event) {}

// LogSink writes each collision as a structured log entry.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("collision")}
}

func (s *LogSink) Collision(e Event) {
	s.log.Info("collision",
		zap.String("pair", e.Pair()),
		zap.Stringer("a", e.A),
		zap.Stringer("b", e.B),
		zap.Float64("radius_a", e.RadiusA),
		zap.Float64("radius_b", e.RadiusB),
		zap.Float64("time", e.Time),
		zap.Int("step", e.Step),
	)
}

// Recorder keeps every event in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Collision(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// MultiSink fans out to every sink in order.
type MultiSink []Sink

func (m MultiSink) Collision(e Event) {
	for _, s := range m {
		s.Collision(e)
	}
}
