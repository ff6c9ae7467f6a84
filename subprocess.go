package pool

// KillPolicy controls how a noted subprocess is treated when its
// owning pool is cleared or destroyed.
type KillPolicy int

const (
	// KillAlways sends an immediate kill signal on reap, skipping the
	// graceful-termination step entirely.
	KillAlways KillPolicy = iota
	// KillAfterTimeout sends a graceful termination signal, waits out
	// the batch's shared grace period, then escalates to kill if the
	// process is still alive.
	KillAfterTimeout
	// KillOnlyOnce sends a graceful termination signal and shares the
	// batch's grace period like KillAfterTimeout, but is never
	// escalated to an immediate kill; reap then blocks waiting on it.
	KillOnlyOnce
	// KillNever is neither signaled nor waited on by reap. A process
	// transitions to this policy automatically once reap observes it
	// has already exited (and has reaped it).
	KillNever
)

type subprocessEntry struct {
	pid    int
	policy KillPolicy
}

// NoteSubprocess attaches pid to p's subprocess chain under policy.
// The chain is reaped — signaled according to policy, then waited on
// — when p is cleared or destroyed.
func (p *Pool) NoteSubprocess(pid int, policy KillPolicy) {
	p.subprocs = append(p.subprocs, subprocessEntry{pid: pid, policy: policy})
}
