package pool

import "testing"

func TestSprintfBasic(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	got := p.Sprintf("%s=%d", "n", 42)
	if got != "n=42" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfEmptyResult(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	got := p.Sprintf("")
	if got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfGrowsPastBlockCapacity(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	// Force the active block down to a tiny remaining size so the
	// formatted output is guaranteed to overflow it at least once.
	p.last.first = p.last.endp - 4

	long := make([]byte, 0, 4096)
	for i := 0; i < 4096; i++ {
		long = append(long, byte('a'+i%26))
	}
	got := p.Sprintf("%s", string(long))
	if got != string(long) {
		t.Fatalf("expected a %d-byte round trip, got length %d", len(long), len(got))
	}
}

func TestVSprintfMatchesSprintf(t *testing.T) {
	p := NewPool(nil)
	defer p.Destroy()

	args := []interface{}{"x", 7}
	a := p.Sprintf("%s:%d", args...)
	b := p.VSprintf("%s:%d", args)
	if a != b {
		t.Fatalf("Sprintf and VSprintf diverged: %q vs %q", a, b)
	}
}
