//go:build !unix

package pool

// freeProcChain on non-unix platforms drops the chain without the
// signal/reap choreography the unix build performs: that
// choreography (SIGTERM/SIGKILL, waitpid) is inherently POSIX.
func (p *Pool) freeProcChain() {
	p.subprocs = nil
}
