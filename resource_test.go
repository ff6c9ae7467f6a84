package pool

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPOpenFDRegistersAndCloses(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	path := filepath.Join(t.TempDir(), "f")
	f, err := POpenFD(p, path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		t.Fatalf("POpenFD: %v", err)
	}
	if err := PCloseFD(p, f); err != nil {
		t.Fatalf("PCloseFD: %v", err)
	}
	// A second close must fail: the fd is already closed and the
	// cleanup already removed.
	if err := f.Close(); err == nil {
		t.Fatalf("expected the fd to already be closed")
	}
}

func TestPFOpenFlushesOnClose(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	path := filepath.Join(t.TempDir(), "f")
	s, err := PFOpen(p, path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		t.Fatalf("PFOpen: %v", err)
	}
	if _, err := s.W.WriteString("hello"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := PFClose(p, s); err != nil {
		t.Fatalf("PFClose: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected flush-on-close, got %q", got)
	}
}

func TestPOpenDirRejectsRegularFile(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := POpenDir(p, path); err == nil {
		t.Fatalf("expected POpenDir to reject a non-directory path")
	}
}

func TestPListenPDialRoundTrip(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	l, err := PListen(p, "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("PListen: %v", err)
	}
	addr := l.Addr().String()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := l.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	c, err := PDial(p, "tcp", addr)
	if err != nil {
		t.Fatalf("PDial: %v", err)
	}
	<-done
	if err := PCloseSocket(p, c); err != nil {
		t.Fatalf("PCloseSocket: %v", err)
	}
	if err := PCloseListener(p, l); err != nil {
		t.Fatalf("PCloseListener: %v", err)
	}
}

func TestPRegcompPRegfree(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	re, err := PRegcomp(p, `^[a-z]+$`)
	if err != nil {
		t.Fatalf("PRegcomp: %v", err)
	}
	if !re.MatchString("abc") {
		t.Fatalf("expected match")
	}
	PRegfree(p, re) // must not panic; no actual release needed
}
