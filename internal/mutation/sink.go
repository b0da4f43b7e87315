package mutation

import (
	"context"
	"sync"
)

// Sink receives mutations
type Sink interface {
	Dispatch(ctx context.Context, m Mutation) error
}

// SinkFunc adapts a function into a Sink
type SinkFunc func(ctx context.Context, m Mutation) error

// Dispatch calls f
func (f SinkFunc) Dispatch(ctx context.Context, m Mutation) error {
	return f(ctx, m)
}

// DispatchAll sends mutations in order, stopping at the first error
func DispatchAll(ctx context.Context, sink Sink, mutations []Mutation) error {
	for _, m := range mutations {
		if err := sink.Dispatch(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Recorder is a Sink that keeps every mutation it receives
type Recorder struct {
	mu        sync.Mutex
	mutations []Mutation
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Dispatch records m
func (r *Recorder) Dispatch(_ context.Context, m Mutation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, m)
	return nil
}

// Mutations returns a copy of everything recorded
func (r *Recorder) Mutations() []Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Mutation(nil), r.mutations...)
}

// Types returns the type of every recorded mutation, in order
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.mutations))
	for i, m := range r.mutations {
		out[i] = m.Type
	}
	return out
}

// OfType returns the recorded mutations of one type
func (r *Recorder) OfType(t Type) []Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Mutation
	for _, m := range r.mutations {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// Reset discards everything recorded
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = nil
}

// Discard is a Sink that drops every mutation
var Discard Sink = SinkFunc(func(context.Context, Mutation) error { return nil })
