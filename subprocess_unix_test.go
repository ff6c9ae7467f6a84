//go:build unix

package pool

import (
	"io"
	"testing"
)

func TestSpawnChildFDRoundTrip(t *testing.T) {
	p := NewPool(nil)

	pid, stdin, stdout, _, err := SpawnChildFD(p, []string{"/bin/cat"}, true, true, false)
	if err != nil {
		t.Skipf("cannot spawn /bin/cat in this environment: %v", err)
	}
	if pid <= 0 {
		t.Fatalf("expected a positive pid, got %d", pid)
	}

	if _, err := stdin.WriteString("ping"); err != nil {
		t.Fatalf("write: %v", err)
	}
	stdin.Close()

	got, err := io.ReadAll(stdout)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "ping" {
		t.Fatalf("got %q", got)
	}
	p.Destroy() // reaps the spawned child via freeProcChain
}

func TestNoteSubprocessRecordsPolicy(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	p.NoteSubprocess(1234, KillAlways)
	if len(p.subprocs) != 1 {
		t.Fatalf("expected 1 recorded subprocess, got %d", len(p.subprocs))
	}
	if p.subprocs[0].policy != KillAlways {
		t.Fatalf("expected KillAlways, got %v", p.subprocs[0].policy)
	}
}
