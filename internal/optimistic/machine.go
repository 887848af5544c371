// Package optimistic tracks a value that is updated locally before the
// backend confirms the change.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

type State string

const (
	StateCommitted  State = "committed"
	StatePending    State = "pending"
	StateRolledBack State = "rolledBack"
)

var ErrPending = errors.New("optimistic update already pending")

// Machine holds one value and at most one unconfirmed change to it.
//
//	committed --apply--> pending --commit--> committed
//	                     pending --rollback--> rolledBack --apply--> pending
type Machine[T any] struct {
	mu       sync.Mutex
	value    T
	previous T
	state    State
}

func New[T any](initial T) *Machine[T] {
	return &Machine[T]{value: initial, state: StateCommitted}
}

func (m *Machine[T]) Value() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

func (m *Machine[T]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns value and state read together.
func (m *Machine[T]) Snapshot() (T, State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.state
}

// Apply moves to pending with next computed from the current value.
func (m *Machine[T]) Apply(next func(current T) T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePending {
		var zero T
		return zero, ErrPending
	}
	m.previous = m.value
	m.value = next(m.value)
	m.state = StatePending
	return m.value, nil
}

// Commit replaces the pending value with the confirmed one.
func (m *Machine[T]) Commit(confirmed T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePending {
		return
	}
	m.value = confirmed
	m.state = StateCommitted
}

// Rollback restores the value seen before the pending change.
func (m *Machine[T]) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePending {
		return
	}
	m.value = m.previous
	m.state = StateRolledBack
}

// Reset overwrites the value with an authoritative one, dropping any
// pending change.
func (m *Machine[T]) Reset(value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	m.state = StateCommitted
}

// Do applies the optimistic change, runs call and commits its result, or
// rolls back when call fails.
func (m *Machine[T]) Do(ctx context.Context, next func(current T) T, call func(ctx context.Context, optimistic T) (T, error)) (T, error) {
	optimistic, err := m.Apply(next)
	if err != nil {
		return m.Value(), err
	}
	confirmed, err := call(ctx, optimistic)
	if err != nil {
		m.Rollback()
		return m.Value(), err
	}
	m.Commit(confirmed)
	return confirmed, nil
}
