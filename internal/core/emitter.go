package core

import "github.com/rs/zerolog"

// Emitter delivers events to sinks captured in a directory view. Delivery
// is non-blocking and happens outside the directory lock, so a slow
// consumer never stalls membership mutations.
type Emitter struct {
	log *zerolog.Logger
}

// NewEmitter builds an emitter that logs dropped deliveries.
func NewEmitter(logger *zerolog.Logger) *Emitter {
	return &Emitter{log: logger}
}

// ToOne delivers an event to a single sink.
func (e *Emitter) ToOne(sink Sink, ev *Event) {
	if sink == nil {
		return
	}
	if !sink.Send(ev) && e.log != nil {
		e.log.Debug().Int("kind", int(ev.Kind)).Msg("dropped event for slow consumer")
	}
}

// ToEach delivers an event to every sink in the slice.
func (e *Emitter) ToEach(sinks []Sink, ev *Event) {
	for _, sink := range sinks {
		e.ToOne(sink, ev)
	}
}
