//go:build unix

package pool

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// spawnMu serializes the narrow window between creating pipes and
// handing their child-side ends to the spawned process: on every
// platform this package targets that window is not otherwise
// observable from another goroutine, but the mutex is kept to bound
// the window should a future platform implementation make it so (for
// instance by momentarily dup'ing a pipe end onto a shared stdio
// slot).
var spawnMu sync.Mutex

// SpawnChildFD forks/execs argv via os/exec, piping stdin/stdout/stderr
// through OS pipes when requested, and returns the child's pid along
// with the parent-side ends of any requested pipes. On any failure,
// every pipe already opened is closed before returning, and the
// underlying error is returned with errno intact.
func SpawnChildFD(p *Pool, argv []string, wantStdin, wantStdout, wantStderr bool) (pid int, stdin *os.File, stdout *os.File, stderr *os.File, err error) {
	spawnMu.Lock()
	defer spawnMu.Unlock()

	cmd := exec.Command(argv[0], argv[1:]...)

	var opened []*os.File
	closeOpened := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if wantStdin {
		r, w, perr := os.Pipe()
		if perr != nil {
			closeOpened()
			return 0, nil, nil, nil, wrapErrno("pipe", perr)
		}
		opened = append(opened, r, w)
		cmd.Stdin = r
		stdin = w
	}
	if wantStdout {
		r, w, perr := os.Pipe()
		if perr != nil {
			closeOpened()
			return 0, nil, nil, nil, wrapErrno("pipe", perr)
		}
		opened = append(opened, r, w)
		cmd.Stdout = w
		stdout = r
	}
	if wantStderr {
		r, w, perr := os.Pipe()
		if perr != nil {
			closeOpened()
			return 0, nil, nil, nil, wrapErrno("pipe", perr)
		}
		opened = append(opened, r, w)
		cmd.Stderr = w
		stderr = r
	}

	if err := cmd.Start(); err != nil {
		closeOpened()
		return 0, nil, nil, nil, wrapErrno("spawn", err)
	}

	// Close the child-side ends now that the child process holds its
	// own copies of the descriptors.
	if wantStdin {
		cmd.Stdin.(*os.File).Close()
	}
	if wantStdout {
		cmd.Stdout.(*os.File).Close()
	}
	if wantStderr {
		cmd.Stderr.(*os.File).Close()
	}

	p.NoteSubprocess(cmd.Process.Pid, KillAfterTimeout)
	if stdin != nil {
		p.RegisterCleanup(stdin, closeFD, closeFD)
	}
	if stdout != nil {
		p.RegisterCleanup(stdout, closeFD, closeFD)
	}
	if stderr != nil {
		p.RegisterCleanup(stderr, closeFD, closeFD)
	}
	return cmd.Process.Pid, stdin, stdout, stderr, nil
}

// SpawnChildStream is SpawnChildFD with the parent-side pipe ends
// wrapped as buffered streams and registered on p.
func SpawnChildStream(p *Pool, argv []string, wantStdin, wantStdout, wantStderr bool) (pid int, stdin, stdout, stderr *BufStream, err error) {
	pidv, inF, outF, errF, err := SpawnChildFD(p, argv, wantStdin, wantStdout, wantStderr)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	// The stream cleanup replaces SpawnChildFD's bare closeFD cleanup,
	// so a pool clear flushes each stream before its file is closed.
	if inF != nil {
		p.KillCleanup(inF, closeFD)
		stdin = PFdopen(p, inF)
	}
	if outF != nil {
		p.KillCleanup(outF, closeFD)
		stdout = PFdopen(p, outF)
	}
	if errF != nil {
		p.KillCleanup(errF, closeFD)
		stderr = PFdopen(p, errF)
	}
	return pidv, stdin, stdout, stderr, nil
}

// ChildChannels wraps a spawned child's pipes as byte channels for
// callers that want to select over process output alongside other
// events instead of blocking on a Read.
type ChildChannels struct {
	Stdin  chan<- []byte
	Stdout <-chan []byte
	Stderr <-chan []byte
}

// SpawnChildChannel is SpawnChildFD with the parent-side pipe ends
// pumped through buffered channels instead of exposed as raw files.
func SpawnChildChannel(p *Pool, argv []string, wantStdin, wantStdout, wantStderr bool) (pid int, ch ChildChannels, err error) {
	pidv, inF, outF, errF, err := SpawnChildFD(p, argv, wantStdin, wantStdout, wantStderr)
	if err != nil {
		return 0, ChildChannels{}, err
	}
	if inF != nil {
		in := make(chan []byte, 16)
		ch.Stdin = in
		go pumpToWriter(in, inF)
	}
	if outF != nil {
		out := make(chan []byte, 16)
		ch.Stdout = out
		go pumpFromReader(outF, out)
	}
	if errF != nil {
		errc := make(chan []byte, 16)
		ch.Stderr = errc
		go pumpFromReader(errF, errc)
	}
	return pidv, ch, nil
}

func pumpToWriter(in <-chan []byte, w *os.File) {
	defer w.Close()
	for chunk := range in {
		if _, err := w.Write(chunk); err != nil {
			return
		}
	}
}

func pumpFromReader(r *os.File, out chan<- []byte) {
	defer close(out)
	defer r.Close()
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			return
		}
	}
}

// freeProcChain reaps p's subprocess chain following a batched
// policy: a non-blocking reap pass first, then graceful signals, a
// single shared sleep covering the whole batch (not one per process),
// an immediate-kill escalation for survivors, and finally a blocking
// wait on everything not already KillNever.
func (p *Pool) freeProcChain() {
	if len(p.subprocs) == 0 {
		return
	}
	entries := p.subprocs
	p.subprocs = nil

	needsTimeout := false
	for i := range entries {
		e := &entries[i]
		if e.policy == KillNever {
			continue
		}
		if exited, _ := nonBlockingReap(e.pid); exited {
			e.policy = KillNever
		}
	}

	for i := range entries {
		e := &entries[i]
		switch e.policy {
		case KillAfterTimeout, KillOnlyOnce:
			if signalProcess(e.pid, syscall.SIGTERM) == nil {
				needsTimeout = true
			}
		case KillAlways:
			_ = signalProcess(e.pid, syscall.SIGKILL)
		}
	}

	if needsTimeout {
		time.Sleep(p.store.cfg.SubprocessGrace)
	}

	for i := range entries {
		e := &entries[i]
		if e.policy == KillAfterTimeout {
			_ = signalProcess(e.pid, syscall.SIGKILL)
		}
	}

	for i := range entries {
		e := &entries[i]
		if e.policy == KillNever {
			continue
		}
		waitPid(e.pid)
	}
}

func signalProcess(pid int, sig syscall.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(sig)
}

// nonBlockingReap reports whether pid has already exited, reaping it
// if so, without blocking if it has not.
func nonBlockingReap(pid int) (exited bool, err error) {
	var status syscall.WaitStatus
	got, werr := syscall.Wait4(pid, &status, syscall.WNOHANG, nil)
	if werr != nil {
		return false, werr
	}
	return got == pid, nil
}

// waitPid blocks until pid has exited, silently proceeding if it
// refuses to die before the process table entry disappears for
// another reason: a subprocess refusing to die is not a fatal
// condition.
func waitPid(pid int) {
	var status syscall.WaitStatus
	_, _ = syscall.Wait4(pid, &status, 0, nil)
}
