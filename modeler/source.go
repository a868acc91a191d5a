package modeler

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Source is the input of MapSource: either Immediate or Pending.
type Source interface {
	isSource()
}

// Immediate is a source value available now. A slice or array value is
// mapped element by element.
type Immediate struct {
	Value any
}

// Pending is a source value that must be awaited before mapping.
type Pending struct {
	Future Future
}

func (Immediate) isSource() {}
func (Pending) isSource()   {}

// Future resolves to a source value.
type Future interface {
	Await(ctx context.Context) (any, error)
}

// FutureFunc adapts a function to Future.
type FutureFunc func(ctx context.Context) (any, error)

func (f FutureFunc) Await(ctx context.Context) (any, error) {
	return f(ctx)
}

// SourceOf wraps v: Sources are returned unchanged, Futures become Pending
// and everything else becomes Immediate.
func SourceOf(v any) Source {
	switch val := v.(type) {
	case Source:
		return val
	case Future:
		return Pending{Future: val}
	default:
		return Immediate{Value: v}
	}
}

// Result holds the outcome of MapSource: a single instance or, for
// sequence sources, one instance per element.
type Result struct {
	Instance  *Instance
	Instances []*Instance
	Sequence  bool
}

// MapSource maps src, awaiting it first when it is Pending. The resolved
// value of a Pending source is mapped as if passed to MapSource again.
func (r *Registry) MapSource(ctx context.Context, src Source, from, to string) (Result, error) {
	switch s := src.(type) {
	case Pending:
		if s.Future == nil {
			return Result{}, errors.New("pending source without a future")
		}

		r.logger.Debug("awaiting pending source", "source", from, "target", to)

		v, err := s.Future.Await(ctx)
		if err != nil {
			return Result{}, err
		}

		return r.MapSource(ctx, SourceOf(v), from, to)
	case Immediate:
		if isSequence(reflect.ValueOf(s.Value)) {
			insts, err := r.MapAll(s.Value, from, to)
			if err != nil {
				return Result{}, err
			}

			return Result{Instances: insts, Sequence: true}, nil
		}

		inst, err := r.Map(s.Value, from, to)
		if err != nil {
			return Result{}, err
		}

		return Result{Instance: inst}, nil
	default:
		return Result{}, errors.New("nil source")
	}
}

// Promise is a Future resolved once by Resolve or Reject.
type Promise struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

// NewPromise creates an unresolved promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolve completes the promise with v. Later calls are ignored.
func (p *Promise) Resolve(v any) {
	p.once.Do(func() {
		p.value = v
		close(p.done)
	})
}

// Reject completes the promise with err. Later calls are ignored.
func (p *Promise) Reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Await blocks until the promise completes or ctx is done.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
