package pool

import "reflect"

// CleanupFunc is invoked with the data a cleanup was registered with.
// An error is logged but never stops the remaining cleanups in a
// batch: a pool clear cannot be partially abandoned because one
// resource refused to close.
type CleanupFunc func(data interface{}) error

type cleanupEntry struct {
	data      interface{}
	onDestroy CleanupFunc
	onExec    CleanupFunc
	killed    bool
}

// NullCleanup is a CleanupFunc that does nothing, for callers that
// need to occupy the (data, onDestroy, onExec) shape without an actual
// side effect.
func NullCleanup(interface{}) error { return nil }

// RegisterCleanup registers data to be passed to onDestroy when p is
// cleared or destroyed, and to onExec when the process tree is
// prepared for exec via CleanupForExec.
//
// Cleanups run in registration order. The list is append-ordered
// rather than prepended-and-walked-from-head, so that registration
// order and run order always agree (see DESIGN.md).
func (p *Pool) RegisterCleanup(data interface{}, onDestroy, onExec CleanupFunc) {
	p.assertAlive()
	if onDestroy == nil {
		onDestroy = NullCleanup
	}
	if onExec == nil {
		onExec = NullCleanup
	}
	p.cleanups = append(p.cleanups, cleanupEntry{data: data, onDestroy: onDestroy, onExec: onExec})
}

// KillCleanup removes the first cleanup entry matching data and
// onDestroy by identity, without running it.
func (p *Pool) KillCleanup(data interface{}, onDestroy CleanupFunc) {
	for i := range p.cleanups {
		e := &p.cleanups[i]
		if e.killed {
			continue
		}
		if e.data == data && fnEqual(e.onDestroy, onDestroy) {
			e.killed = true
			return
		}
	}
}

// RunCleanup invokes fn(data) exactly once, inside an
// interruption-blocking scope, and removes the matching cleanup entry
// so it does not run again at Clear/Destroy time. fn must be the same
// function value passed as onDestroy to the matching RegisterCleanup
// call, since KillCleanup matches by identity.
func (p *Pool) RunCleanup(data interface{}, fn CleanupFunc) error {
	blockInterruptions()
	defer unblockInterruptions()
	var err error
	if fn != nil {
		err = fn(data)
	}
	p.KillCleanup(data, fn)
	return err
}

// runCleanups invokes every live onDestroy handler in registration
// order, then empties the list. The list is snapshotted before the
// walk begins: a handler that calls RegisterCleanup on the same pool
// during its own invocation does not extend the batch being run.
func (p *Pool) runCleanups() {
	batch := p.cleanups
	p.cleanups = nil
	for _, e := range batch {
		if e.killed {
			continue
		}
		if err := e.onDestroy(e.data); err != nil {
			logger.Sugar().Warnw("pool cleanup failed", "error", err)
		}
	}
}

// CleanupForExec walks the pool tree rooted at p from p downward,
// invoking every live onExec handler and clearing every pool's
// cleanup list, without touching block storage or the subprocess
// chain. It is meant to be called on the permanent pool immediately
// before the host replaces its own process image.
func (p *Pool) CleanupForExec() {
	batch := p.cleanups
	p.cleanups = nil
	for _, e := range batch {
		if e.killed {
			continue
		}
		if err := e.onExec(e.data); err != nil {
			logger.Sugar().Warnw("pool exec cleanup failed", "error", err)
		}
	}
	for c := p.firstChild; c != nil; c = c.nextSibling {
		c.CleanupForExec()
	}
}

// fnEqual compares two CleanupFunc values the way register/kill
// compare C function pointers: by code identity. Go forbids comparing
// func values directly; reflect.Value.Pointer gives the entry point of
// the underlying code, which is the closest Go analogue of C's
// function-pointer equality and is sufficient for the package-level
// cleanup functions this package registers internally.
func fnEqual(a, b CleanupFunc) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
